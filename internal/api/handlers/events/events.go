package events

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
	CreateEvent(ctx context.Context, in services.NewEvent) (models.Event, error)
	GetEvent(ctx context.Context, id int64) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id int64, in services.EventUpdate) (models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type Handler struct {
	svc     Service
	timeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req services.NewEvent
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	event, err := h.svc.CreateEvent(ctx, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	list, err := h.svc.ListEvents(ctx)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetEventByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	event, err := h.svc.GetEvent(ctx, id)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	var req services.EventUpdate
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	event, err := h.svc.UpdateEvent(ctx, id, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	if err := h.svc.DeleteEvent(ctx, id); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	handlers.WriteDeleted(w, "event")
}
