package application

import (
	"context"

	"github.com/orderflow/reservation-system/participant-service/domain"
	"github.com/orderflow/reservation-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// CancelCommand carries a cancellation request. Fields other than the order
// identifier are accepted and ignored.
type CancelCommand struct {
	OrderID string `json:"order_id"`
}

// CancelResponse is returned for every cancellation.
type CancelResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// Cancel use case: release a reservation. Always succeeds, including when
// no reservation exists for the identifier.
type Cancel struct {
	store *domain.Store
}

// NewCancel creates a new Cancel use case.
func NewCancel(store *domain.Store) *Cancel {
	return &Cancel{store: store}
}

// Execute removes the reservation if present.
func (uc *Cancel) Execute(ctx context.Context, cmd *CancelCommand) (*CancelResponse, error) {
	uc.store.Cancel(cmd.OrderID)

	telemetry.RecordCounter(ctx, "reservations_cancelled_total", "Reservation cancellations", 1,
		attribute.String("role", string(uc.store.Role())),
	)

	return &CancelResponse{
		Status:  "cancelled",
		OrderID: cmd.OrderID,
	}, nil
}
