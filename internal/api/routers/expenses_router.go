package routers

import (
	"cuentas_claras/internal/api/handlers/expenses"
	"net/http"
)

func expensesRouter(h *expenses.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /expenses", h.CreateExpenseHandler)

	mux.HandleFunc("GET /expenses", h.GetExpensesHandler)

	mux.HandleFunc("GET /expenses/{id}", h.GetExpenseByIDHandler)

	mux.HandleFunc("DELETE /expenses/{id}", h.DeleteExpenseHandler)

	return mux
}
