package routers

import (
	"cuentas_claras/internal/api/handlers/reports"
	"net/http"
)

func reportsRouter(h *reports.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /reports/event/{id}", h.EventSummaryHandler)

	mux.HandleFunc("GET /reports/event/{id}/categories", h.EventCategoriesHandler)

	mux.HandleFunc("GET /reports/event/{id}/balance", h.EventBalanceHandler)

	mux.HandleFunc("GET /reports/events-period", h.EventsByPeriodHandler)

	mux.HandleFunc("GET /reports/general-stats", h.GeneralStatsHandler)

	mux.HandleFunc("GET /reports/events-list", h.EventsListHandler)

	return mux
}
