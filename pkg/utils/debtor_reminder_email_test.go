package utils

import (
	"strings"
	"testing"
	"time"
)

func TestDebtorReminderEmail(t *testing.T) {
	subject, body := DebtorReminderEmail("Beto <b>", "13.33", []ReminderLine{
		{EventName: "Viaje", OwedTo: "Ana", Amount: "3.33", Since: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{EventName: "Cena", OwedTo: "Carla", Amount: "10.00", Since: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
	})

	if !strings.Contains(subject, "$13.33") {
		t.Errorf("subject %q does not mention the total", subject)
	}
	for _, want := range []string{"Beto &lt;b&gt;", "Viaje", "Ana", "$3.33", "01/03/2024", "Carla", "$10.00", "width: 100%;"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
	if strings.Contains(body, "Beto <b>") {
		t.Error("participant name was not escaped")
	}
}
