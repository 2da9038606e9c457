package routers

import (
	"cuentas_claras/internal/api/handlers/debts"
	"net/http"
)

func debtsRouter(h *debts.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /debts", h.GetDebtsHandler)

	mux.HandleFunc("PATCH /debts/{id}/pay", h.PayDebtHandler)

	mux.HandleFunc("GET /debts/event/{id}", h.GetEventDebtsHandler)

	mux.HandleFunc("GET /debts/event/{id}/total-pending", h.GetEventPendingTotalHandler)

	mux.HandleFunc("GET /debts/participant/{id}", h.GetParticipantDebtsHandler)

	mux.HandleFunc("GET /debts/participant/{id}/total-pending", h.GetParticipantPendingTotalHandler)

	return mux
}
