package utils

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// ReminderLine is one pending debt listed in a reminder e-mail.
type ReminderLine struct {
	EventName string
	OwedTo    string
	Amount    string
	Since     time.Time
}

// DebtorReminderEmail renders the subject and HTML body of a reminder for
// a participant with pending debts.
func DebtorReminderEmail(name, total string, lines []ReminderLine) (string, string) {
	subject := fmt.Sprintf("💰 Recordatorio: tenés $%s pendientes", total)

	var rows strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&rows, `
					<tr>
						<td>%s</td>
						<td>%s</td>
						<td class="amount">$%s</td>
						<td>%s</td>
					</tr>`,
			html.EscapeString(l.EventName), html.EscapeString(l.OwedTo), l.Amount, l.Since.Format("02/01/2006"))
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="es">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Recordatorio de pago</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 560px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #d9534f;
		}
		.header {
			background-color: #d9534f;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.content {
			padding: 20px 18px;
			font-size: 14px;
			line-height: 1.6;
		}
		table {
			width: 100%%;
			border-collapse: collapse;
			margin: 16px 0;
		}
		th, td {
			text-align: left;
			padding: 6px 4px;
			border-bottom: 1px solid #eee;
		}
		.amount {
			color: #d9534f;
			font-weight: 700;
		}
		.footer {
			background: #f6f6f6;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>Recordatorio de pago 💬</h1>
			</div>
			<div class="content">
				<p>Hola %s,<br><br>
				Todavía tenés deudas pendientes por un total de <b>$%s</b>:</p>

				<table>
					<tr><th>Evento</th><th>Le debés a</th><th>Monto</th><th>Desde</th></tr>%s
				</table>

				<p>Cuando las pagues, pedile a quien pagó el gasto que las marque como pagadas.</p>
			</div>
			<div class="footer">
				&copy; %d Cuentas Claras
			</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(name), total, rows.String(), time.Now().Year())

	return subject, body
}
