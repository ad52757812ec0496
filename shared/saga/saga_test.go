package saga

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRun(t *testing.T) {
	run := NewRun("order-1")

	assert.NotEmpty(t, run.ID.String())
	assert.Equal(t, "order-1", run.OrderID)
	assert.Equal(t, StatusStarted, run.Status)
	assert.Empty(t, run.Steps)
	assert.Empty(t, run.Compensations)
}

func TestRecordStepMirrorsCompensations(t *testing.T) {
	run := NewRun("order-1")

	run.RecordStep("payment reserved", CompensationEntry{
		Endpoint: "http://payment/payment/cancel",
		Payload:  map[string]interface{}{"order_id": "order-1"},
		Action:   "payment cancel",
	}, StatusPaymentReserved)

	assert.Equal(t, StatusPaymentReserved, run.Status)
	assert.Equal(t, []string{"payment reserved"}, run.Steps)
	assert.Len(t, run.Compensations, 1)

	run.RecordStep("inventory reserved", CompensationEntry{
		Endpoint: "http://inventory/inventory/cancel",
		Payload:  map[string]interface{}{"order_id": "order-1"},
		Action:   "inventory cancel",
	}, StatusInventoryReserved)

	// Compensation list mirrors completed steps, in completion order.
	assert.Equal(t, StatusInventoryReserved, run.Status)
	assert.Len(t, run.Compensations, len(run.Steps))
	assert.Equal(t, "payment cancel", run.Compensations[0].Action)
	assert.Equal(t, "inventory cancel", run.Compensations[1].Action)
}

func TestPendingCompensationsReverseOrder(t *testing.T) {
	run := NewRun("order-1")
	run.RecordStep("payment reserved", CompensationEntry{Action: "payment cancel"}, StatusPaymentReserved)
	run.RecordStep("inventory reserved", CompensationEntry{Action: "inventory cancel"}, StatusInventoryReserved)
	run.RecordStep("delivery reserved", CompensationEntry{Action: "delivery cancel"}, StatusDeliveryReserved)

	pending := run.PendingCompensations()

	assert.Len(t, pending, 3)
	assert.Equal(t, "delivery cancel", pending[0].Action)
	assert.Equal(t, "inventory cancel", pending[1].Action)
	assert.Equal(t, "payment cancel", pending[2].Action)

	// The run's own list is left untouched.
	assert.Equal(t, "payment cancel", run.Compensations[0].Action)
}

func TestRunTransitions(t *testing.T) {
	run := NewRun("order-1")
	run.RecordStep("payment reserved", CompensationEntry{Action: "payment cancel"}, StatusPaymentReserved)

	run.BeginCompensation()
	assert.Equal(t, StatusCompensating, run.Status)

	run.Fail()
	assert.Equal(t, StatusFailed, run.Status)

	confirmed := NewRun("order-2")
	confirmed.Confirm()
	assert.Equal(t, StatusConfirmed, confirmed.Status)
}
