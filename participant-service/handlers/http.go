package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orderflow/reservation-system/participant-service/application"
	"github.com/orderflow/reservation-system/participant-service/domain"
	"github.com/orderflow/reservation-system/shared/faults"
)

// ParticipantHandlers contains the reserve/cancel HTTP handlers for one
// participant role.
type ParticipantHandlers struct {
	role    domain.Role
	reserve *application.Reserve
	cancel  *application.Cancel
}

// NewParticipantHandlers creates new participant handlers.
func NewParticipantHandlers(role domain.Role, reserve *application.Reserve, cancel *application.Cancel) *ParticipantHandlers {
	return &ParticipantHandlers{
		role:    role,
		reserve: reserve,
		cancel:  cancel,
	}
}

// Reserve handles reservation requests.
func (h *ParticipantHandlers) Reserve(w http.ResponseWriter, r *http.Request) {
	var cmd domain.ReserveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.reserve.Execute(r.Context(), &cmd)
	if err != nil {
		writeDetail(w, statusForFault(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Cancel handles cancellation requests.
func (h *ParticipantHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	var cmd application.CancelCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.cancel.Execute(r.Context(), &cmd)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// RegisterRoutes registers the role-prefixed participant routes.
func (h *ParticipantHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/"+string(h.role), func(r chi.Router) {
		r.Post("/reserve", h.Reserve)
		r.Post("/cancel", h.Cancel)
	})
}

func statusForFault(err error) int {
	switch faults.KindOf(err) {
	case faults.KindValidation:
		return http.StatusBadRequest
	case faults.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
