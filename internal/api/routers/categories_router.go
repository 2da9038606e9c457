package routers

import (
	"cuentas_claras/internal/api/handlers/categories"
	"net/http"
)

func categoriesRouter(h *categories.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /categories", h.GetCategoriesHandler)

	mux.HandleFunc("POST /categories", h.CreateCategoryHandler)

	mux.HandleFunc("DELETE /categories/{id}", h.DeleteCategoryHandler)

	return mux
}
