package application

import (
	"context"
	"log"

	"github.com/orderflow/reservation-system/orchestrator-service/domain"
	"github.com/orderflow/reservation-system/shared/faults"
	"github.com/orderflow/reservation-system/shared/saga"
	"github.com/orderflow/reservation-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// SubmitOrder use case: drive the three-step reservation saga for one order.
type SubmitOrder struct {
	gateway   domain.ParticipantGateway
	ledger    domain.OrderLedger
	endpoints domain.ParticipantEndpoints
}

// NewSubmitOrder creates a new SubmitOrder use case.
func NewSubmitOrder(gateway domain.ParticipantGateway, ledger domain.OrderLedger, endpoints domain.ParticipantEndpoints) *SubmitOrder {
	return &SubmitOrder{
		gateway:   gateway,
		ledger:    ledger,
		endpoints: endpoints,
	}
}

// forwardStep describes one forward reservation call and the compensation
// that undoes it.
type forwardStep struct {
	action          string
	label           string
	next            saga.Status
	reserveEndpoint string
	cancelEndpoint  string
	cancelAction    string
	payload         map[string]interface{}
}

// forwardSteps builds the fixed forward sequence: payment, then inventory,
// then delivery. The order is a design choice; it determines which
// compensations are possible on partial failure.
func (uc *SubmitOrder) forwardSteps(request *domain.OrderRequest) []forwardStep {
	return []forwardStep{
		{
			action:          "Payment reservation",
			label:           "payment reserved",
			next:            saga.StatusPaymentReserved,
			reserveEndpoint: uc.endpoints.PaymentURL + "/payment/reserve",
			cancelEndpoint:  uc.endpoints.PaymentURL + "/payment/cancel",
			cancelAction:    "payment cancel",
			payload: map[string]interface{}{
				"order_id":   request.OrderID,
				"amount":     request.Amount,
				"force_fail": request.ForcePaymentFailure,
			},
		},
		{
			action:          "Inventory reservation",
			label:           "inventory reserved",
			next:            saga.StatusInventoryReserved,
			reserveEndpoint: uc.endpoints.InventoryURL + "/inventory/reserve",
			cancelEndpoint:  uc.endpoints.InventoryURL + "/inventory/cancel",
			cancelAction:    "inventory cancel",
			payload: map[string]interface{}{
				"order_id":   request.OrderID,
				"sku":        request.SKU,
				"quantity":   request.Quantity,
				"force_fail": request.ForceInventoryFailure,
			},
		},
		{
			action:          "Delivery reservation",
			label:           "delivery reserved",
			next:            saga.StatusDeliveryReserved,
			reserveEndpoint: uc.endpoints.DeliveryURL + "/delivery/reserve",
			cancelEndpoint:  uc.endpoints.DeliveryURL + "/delivery/cancel",
			cancelAction:    "delivery cancel",
			payload: map[string]interface{}{
				"order_id":   request.OrderID,
				"slot":       request.Slot,
				"force_fail": request.ForceDeliveryFailure,
			},
		},
	}
}

// Execute runs the saga: the forward steps in fixed order, and on any step
// failure the compensation sequence followed by the original failure.
// Resubmission of an already confirmed identifier is not guarded against
// and silently repeats the saga.
func (uc *SubmitOrder) Execute(ctx context.Context, request *domain.OrderRequest) (*domain.OrderOutcome, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "saga.submit_order")
	defer span.End()

	run := saga.NewRun(request.OrderID)
	span.SetAttributes(
		attribute.String("saga.run_id", run.ID.String()),
		attribute.String("saga.order_id", run.OrderID),
	)
	telemetry.RecordCounter(ctx, "sagas_started_total", "Saga runs started", 1)

	for _, step := range uc.forwardSteps(request) {
		if _, err := uc.gateway.Call(ctx, step.reserveEndpoint, step.payload, step.action); err != nil {
			uc.compensate(ctx, run)
			run.Fail()
			telemetry.RecordCounter(ctx, "sagas_failed_total", "Saga runs failed", 1,
				attribute.String("step", step.action),
			)
			return nil, faults.AsFault(err, step.action)
		}

		run.RecordStep(step.label, saga.CompensationEntry{
			Endpoint: step.cancelEndpoint,
			Payload:  map[string]interface{}{"order_id": request.OrderID},
			Action:   step.cancelAction,
		}, step.next)
	}

	run.Confirm()
	outcome := domain.OrderOutcome{
		Status: domain.StatusConfirmed,
		Steps:  append([]string(nil), run.Steps...),
	}
	uc.ledger.Put(request.OrderID, outcome)
	telemetry.RecordCounter(ctx, "sagas_confirmed_total", "Saga runs confirmed", 1)

	return &outcome, nil
}

// compensate undoes the completed forward steps in reverse completion
// order. Each cancel is attempted independently and best-effort: a failed
// cancel is logged and counted but never escalated, so that one unreachable
// participant does not prevent compensating the others, and so the caller
// always sees the original failure.
func (uc *SubmitOrder) compensate(ctx context.Context, run *saga.Run) {
	run.BeginCompensation()

	// The saga must finish compensating even if the submitting request has
	// already gone away.
	ctx = context.WithoutCancel(ctx)

	for _, entry := range run.PendingCompensations() {
		telemetry.RecordCounter(ctx, "saga_compensations_total", "Compensation calls attempted", 1,
			attribute.String("action", entry.Action),
		)

		if _, err := uc.gateway.Call(ctx, entry.Endpoint, entry.Payload, entry.Action); err != nil {
			log.Printf("compensation %s for order %s (run %s) failed: %v",
				entry.Action, run.OrderID, run.ID.String(), err)
			telemetry.RecordCounter(ctx, "saga_compensation_failures_total", "Compensation calls that failed", 1,
				attribute.String("action", entry.Action),
			)
		}
	}
}
