package routers

import (
	"cuentas_claras/internal/api/handlers/participants"
	"net/http"
)

func participantsRouter(h *participants.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /participants", h.GetParticipantsHandler)

	mux.HandleFunc("POST /participants", h.CreateParticipantHandler)

	mux.HandleFunc("DELETE /participants/{id}", h.DeleteParticipantHandler)

	return mux
}
