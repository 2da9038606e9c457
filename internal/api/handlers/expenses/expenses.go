package expenses

import (
	"context"
	"cuentas_claras/internal/api/handlers"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/services"
	"cuentas_claras/pkg/utils"
	"net/http"
	"time"
)

type Service interface {
	CreateExpense(ctx context.Context, in services.NewExpense) (models.Expense, error)
	GetExpense(ctx context.Context, id int64) (models.Expense, error)
	ListExpenses(ctx context.Context, eventID int64) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type Handler struct {
	svc     Service
	timeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

// CreateExpenseHandler records an expense and answers with the debts it
// generated.
func (h *Handler) CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	var req services.NewExpense
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	exp, err := h.svc.CreateExpense(ctx, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	if exp.Debts == nil {
		exp.Debts = []models.Debt{}
	}
	utils.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) GetExpensesHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.QueryID(r, "event_id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	list, err := h.svc.ListExpenses(ctx, eventID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetExpenseByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	exp, err := h.svc.GetExpense(ctx, id)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	if err := h.svc.DeleteExpense(ctx, id); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	handlers.WriteDeleted(w, "expense")
}
