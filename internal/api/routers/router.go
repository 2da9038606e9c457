package routers

import (
	"context"
	"cuentas_claras/internal/api/handlers/categories"
	"cuentas_claras/internal/api/handlers/debts"
	"cuentas_claras/internal/api/handlers/events"
	"cuentas_claras/internal/api/handlers/expenses"
	"cuentas_claras/internal/api/handlers/participants"
	"cuentas_claras/internal/api/handlers/reports"
	"cuentas_claras/internal/services"
	"cuentas_claras/pkg/utils"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Ledger  *services.Ledger
	Reports *services.ReportService
	DB      Pinger
	Timeout time.Duration
}

func MainRouter(d Deps) *http.ServeMux {

	mux := http.NewServeMux()

	mount(mux, "/events", eventsRouter(events.NewHandler(d.Ledger, d.Timeout)))
	mount(mux, "/participants", participantsRouter(participants.NewHandler(d.Ledger, d.Timeout)))
	mount(mux, "/categories", categoriesRouter(categories.NewHandler(d.Ledger, d.Timeout)))
	mount(mux, "/expenses", expensesRouter(expenses.NewHandler(d.Ledger, d.Timeout)))
	mount(mux, "/debts", debtsRouter(debts.NewHandler(d.Ledger, d.Timeout)))
	mount(mux, "/reports", reportsRouter(reports.NewHandler(d.Reports, d.Timeout)))

	mux.HandleFunc("GET /healthz", healthHandler(d.DB))
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// mount sends both prefix and everything below it to sub.
func mount(mux *http.ServeMux, prefix string, sub http.Handler) {
	mux.Handle(prefix, sub)
	mux.Handle(prefix+"/", sub)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.LoggerFrom(ctx).WithError(err).Error("health check failed")
			utils.WriteError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
