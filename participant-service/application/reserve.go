package application

import (
	"context"

	"github.com/orderflow/reservation-system/participant-service/domain"
	"github.com/orderflow/reservation-system/shared/faults"
	"github.com/orderflow/reservation-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ReserveResponse is returned after a successful reservation.
type ReserveResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// Reserve use case: accept a reservation for this participant's role.
type Reserve struct {
	store *domain.Store
}

// NewReserve creates a new Reserve use case.
func NewReserve(store *domain.Store) *Reserve {
	return &Reserve{store: store}
}

// Execute validates and stores the reservation.
func (uc *Reserve) Execute(ctx context.Context, cmd *domain.ReserveCommand) (*ReserveResponse, error) {
	reservation, err := uc.store.Reserve(cmd)
	if err != nil {
		telemetry.RecordCounter(ctx, "reservations_rejected_total", "Rejected reservation requests", 1,
			attribute.String("role", string(uc.store.Role())),
			attribute.String("kind", string(faults.KindOf(err))),
		)
		return nil, err
	}

	telemetry.RecordCounter(ctx, "reservations_accepted_total", "Accepted reservation requests", 1,
		attribute.String("role", string(uc.store.Role())),
	)

	return &ReserveResponse{
		Status:  "reserved",
		OrderID: reservation.OrderID,
	}, nil
}
