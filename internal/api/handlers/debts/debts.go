package debts

import (
	"context"
	"cuentas_claras/internal/api/handlers"
	"cuentas_claras/internal/models"
	"cuentas_claras/pkg/utils"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	ListDebts(ctx context.Context, f models.DebtFilter) ([]models.Debt, error)
	PendingTotal(ctx context.Context, f models.DebtFilter) (decimal.Decimal, error)
	PayDebt(ctx context.Context, id int64) (models.Debt, error)
}

type Handler struct {
	svc     Service
	timeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

type totalResponse struct {
	Total decimal.Decimal `json:"total"`
}

// GetDebtsHandler lists every debt, optionally narrowed by ?status=.
func (h *Handler) GetDebtsHandler(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.DebtFilter{Status: r.URL.Query().Get("status")})
}

func (h *Handler) GetEventDebtsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	h.list(w, r, models.DebtFilter{EventID: id, Status: r.URL.Query().Get("status")})
}

func (h *Handler) GetParticipantDebtsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	h.list(w, r, models.DebtFilter{ParticipantID: id, Status: r.URL.Query().Get("status")})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f models.DebtFilter) {
	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	list, err := h.svc.ListDebts(ctx, f)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetEventPendingTotalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	h.pendingTotal(w, r, models.DebtFilter{EventID: id})
}

func (h *Handler) GetParticipantPendingTotalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	h.pendingTotal(w, r, models.DebtFilter{ParticipantID: id})
}

func (h *Handler) pendingTotal(w http.ResponseWriter, r *http.Request, f models.DebtFilter) {
	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	total, err := h.svc.PendingTotal(ctx, f)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, totalResponse{Total: total})
}

// PayDebtHandler marks a debt as paid. Paying it again answers 409.
func (h *Handler) PayDebtHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	debt, err := h.svc.PayDebt(ctx, id)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, debt)
}
