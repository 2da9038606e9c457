package categories

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
	CreateCategory(ctx context.Context, in services.NewCategory) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type Handler struct {
	svc     Service
	timeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) *Handler {
	return &Handler{svc: svc, timeout: timeout}
}

func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req services.NewCategory
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	c, err := h.svc.CreateCategory(ctx, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	list, err := h.svc.ListCategories(ctx)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	ctx, cancel := handlers.WithTimeout(r, h.timeout)
	defer cancel()

	if err := h.svc.DeleteCategory(ctx, id); err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}
	handlers.WriteDeleted(w, "category")
}
