package application

import (
	"context"

	"github.com/orderflow/reservation-system/orchestrator-service/domain"
	"github.com/orderflow/reservation-system/shared/faults"
)

// GetOrderQuery represents the query to look up an order outcome.
type GetOrderQuery struct {
	OrderID string `json:"order_id"`
}

// GetOrder use case: pure ledger lookup, no side effects.
type GetOrder struct {
	ledger domain.OrderLedger
}

// NewGetOrder creates a new GetOrder use case.
func NewGetOrder(ledger domain.OrderLedger) *GetOrder {
	return &GetOrder{ledger: ledger}
}

// Execute returns the stored outcome for the order identifier.
func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (*domain.OrderOutcome, error) {
	if query.OrderID == "" {
		return nil, faults.Validation("Order ID is required")
	}

	outcome, ok := uc.ledger.Get(query.OrderID)
	if !ok {
		return nil, faults.NotFound("Order not found")
	}

	return &outcome, nil
}
