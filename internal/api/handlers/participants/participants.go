package participants

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
	AddParticipant(ctx context.Context, in services.NewParticipant) (models.Participant, error)
	ListParticipants(ctx context.Context, eventID int64) ([]models.Participant, error)
	RemoveParticipant(ctx context.Context, id int64) error
}

type Handler struct {
	svc     Service
	timeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

func (h *Handler) CreateParticipantHandler(w http.ResponseWriter, r *http.Request) {
	var req services.NewParticipant
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	p, err := h.svc.AddParticipant(ctx, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

// GetParticipantsHandler lists everyone, or one event's participants with
// ?event_id=.
func (h *Handler) GetParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	eventID, err := handlers.QueryID(r, "event_id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	list, err := h.svc.ListParticipants(ctx, eventID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteParticipantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	if err := h.svc.RemoveParticipant(ctx, id); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	handlers.WriteDeleted(w, "participant")
}
