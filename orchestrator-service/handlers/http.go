package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/orderflow/reservation-system/orchestrator-service/application"
	"github.com/orderflow/reservation-system/orchestrator-service/domain"
	"github.com/orderflow/reservation-system/shared/faults"
)

// OrderHandlers contains the orchestrator HTTP handlers.
type OrderHandlers struct {
	submitOrder *application.SubmitOrder
	getOrder    *application.GetOrder
}

// NewOrderHandlers creates new order handlers.
func NewOrderHandlers(submitOrder *application.SubmitOrder, getOrder *application.GetOrder) *OrderHandlers {
	return &OrderHandlers{
		submitOrder: submitOrder,
		getOrder:    getOrder,
	}
}

// CreateOrder handles order submissions.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var request domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.submitOrder.Execute(r.Context(), &request)
	if err != nil {
		writeDetail(w, statusForFault(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// GetOrder handles order outcome lookups.
func (h *OrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	query := &application.GetOrderQuery{OrderID: orderID}

	outcome, err := h.getOrder.Execute(r.Context(), query)
	if err != nil {
		writeDetail(w, statusForFault(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// RegisterRoutes registers the orchestrator routes.
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{order_id}", h.GetOrder)
	})
}

// statusForFault maps fault kinds to the orchestrator's API statuses. A
// participant refusal and an unreachable participant are both upstream
// failures from the caller's point of view.
func statusForFault(err error) int {
	switch faults.KindOf(err) {
	case faults.KindValidation:
		return http.StatusBadRequest
	case faults.KindNotFound:
		return http.StatusNotFound
	case faults.KindConflict, faults.KindTransport:
		return http.StatusBadGateway
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
