package reports

import (
	"context"
	"cuentas_claras/internal/api/handlers"
	"cuentas_claras/internal/models"
	"cuentas_claras/pkg/utils"
	"net/http"
	"time"
)

type Service interface {
	EventSummary(ctx context.Context, eventID int64) (models.EventSummary, error)
	EventCategories(ctx context.Context, eventID int64) ([]models.CategoryTotal, error)
	EventBalance(ctx context.Context, eventID int64) ([]models.ParticipantBalance, error)
	EventsByPeriod(ctx context.Context, tipo, desde, hasta string) ([]models.PeriodTotal, error)
	GeneralStats(ctx context.Context) (models.GeneralStats, error)
	EventsList(ctx context.Context) ([]models.EventListItem, error)
}

type Handler struct {
	svc     Service
	timeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

// eventReport serves one of the per-event reports.
func eventReport[T any](h *Handler, load func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlers.PathID(r, "id")
		if err != nil {
			handlers.WriteServiceError(w, r, err)
			return
		}

		ctx, cancel := handlers.WithTimeout(r, h.timeout)
		defer cancel()

		report, err := load(ctx, id)
		if err != nil {
			handlers.WriteServiceError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, report)
	}
}

func (h *Handler) EventSummaryHandler(w http.ResponseWriter, r *http.Request) {
	eventReport(h, h.svc.EventSummary)(w, r)
}

func (h *Handler) EventCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	eventReport(h, h.svc.EventCategories)(w, r)
}

func (h *Handler) EventBalanceHandler(w http.ResponseWriter, r *http.Request) {
	eventReport(h, h.svc.EventBalance)(w, r)
}

// EventsByPeriodHandler reads ?tipo=mes|anio&desde=YYYY-MM-DD&hasta=YYYY-MM-DD.
func (h *Handler) EventsByPeriodHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	report, err := h.svc.EventsByPeriod(ctx, q.Get("tipo"), q.Get("desde"), q.Get("hasta"))
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) GeneralStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	stats, err := h.svc.GeneralStats(ctx)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) EventsListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	list, err := h.svc.EventsList(ctx)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}
