package routers

import (
	"cuentas_claras/internal/api/handlers/events"
	"net/http"
)

func eventsRouter(h *events.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /events", h.GetEventsHandler)

	mux.HandleFunc("POST /events", h.CreateEventHandler)

	mux.HandleFunc("GET /events/{id}", h.GetEventByIDHandler)

	mux.HandleFunc("PUT /events/{id}", h.UpdateEventHandler)

	mux.HandleFunc("DELETE /events/{id}", h.DeleteEventHandler)

	return mux
}
