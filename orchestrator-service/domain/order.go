package domain

import (
	"context"

	"github.com/orderflow/reservation-system/shared/faults"
)

// StatusConfirmed is the only outcome status the saga produces; failed runs
// are surfaced to the caller and never stored.
const StatusConfirmed = "confirmed"

// OrderRequest is a submitted order. Immutable once submitted. The three
// force flags exist to simulate downstream failures for testing.
type OrderRequest struct {
	OrderID               string  `json:"order_id"`
	Amount                float64 `json:"amount"`
	SKU                   string  `json:"sku"`
	Quantity              int     `json:"quantity"`
	Slot                  string  `json:"slot"`
	ForcePaymentFailure   bool    `json:"force_payment_failure"`
	ForceInventoryFailure bool    `json:"force_inventory_failure"`
	ForceDeliveryFailure  bool    `json:"force_delivery_failure"`
}

// Validate checks the request fields before any saga side effect.
func (r *OrderRequest) Validate() error {
	if r.OrderID == "" {
		return faults.Validation("Order ID is required")
	}
	if r.Amount <= 0 {
		return faults.Validation("Amount must be positive")
	}
	if r.SKU == "" {
		return faults.Validation("SKU is required")
	}
	if r.Quantity <= 0 {
		return faults.Validation("Quantity must be positive")
	}
	if r.Slot == "" {
		return faults.Validation("Slot is required")
	}
	return nil
}

// OrderOutcome is the stored result of a fully confirmed saga run: the
// status and the human-readable labels of the forward steps in the order
// they completed.
type OrderOutcome struct {
	Status string   `json:"status"`
	Steps  []string `json:"steps"`
}

// ParticipantGateway performs one request/response exchange with a
// participant endpoint and classifies the result into a single fault shape.
type ParticipantGateway interface {
	Call(ctx context.Context, endpoint string, payload map[string]interface{}, action string) (map[string]interface{}, error)
}

// OrderLedger maps order identifiers to their last known final outcome.
// An entry exists only after all three forward steps succeeded.
type OrderLedger interface {
	Put(orderID string, outcome OrderOutcome)
	Get(orderID string) (OrderOutcome, bool)
}

// ParticipantEndpoints holds the base URLs of the three participants, in
// the fixed forward call order.
type ParticipantEndpoints struct {
	PaymentURL   string
	InventoryURL string
	DeliveryURL  string
}
