package saga

import (
	"github.com/orderflow/reservation-system/shared/models"
)

// Status represents the state of one saga run. A run advances through the
// reserved states in the fixed forward order and, on any step failure, moves
// to StatusCompensating and finally StatusFailed.
type Status string

const (
	StatusStarted           Status = "started"
	StatusPaymentReserved   Status = "payment_reserved"
	StatusInventoryReserved Status = "inventory_reserved"
	StatusDeliveryReserved  Status = "delivery_reserved"
	StatusConfirmed         Status = "confirmed"
	StatusCompensating      Status = "compensating"
	StatusFailed            Status = "failed"
)

// CompensationEntry describes how to undo one completed forward step: the
// participant cancel endpoint, the payload to send it, and the action label
// used in logs and error messages.
type CompensationEntry struct {
	Endpoint string
	Payload  map[string]interface{}
	Action   string
}

// Run tracks a single saga execution. It lives only for the duration of the
// run; nothing is persisted across process restarts.
type Run struct {
	ID            models.ID
	OrderID       string
	Status        Status
	Steps         []string
	Compensations []CompensationEntry
	Timestamps    models.Timestamps
}

// NewRun starts tracking a saga run for the given order identifier.
func NewRun(orderID string) *Run {
	return &Run{
		ID:            models.GenerateUUID(),
		OrderID:       orderID,
		Status:        StatusStarted,
		Steps:         make([]string, 0, 3),
		Compensations: make([]CompensationEntry, 0, 3),
		Timestamps:    models.NewTimestamps(),
	}
}

// RecordStep marks one forward step as completed: it appends the step's
// human-readable label, registers the entry that undoes the step, and
// advances the run status. The compensation list always mirrors the prefix
// of completed forward steps, in completion order.
func (r *Run) RecordStep(label string, entry CompensationEntry, next Status) {
	r.Steps = append(r.Steps, label)
	r.Compensations = append(r.Compensations, entry)
	r.Status = next
	r.Timestamps = r.Timestamps.Update()
}

// BeginCompensation transitions the run into the compensating state.
func (r *Run) BeginCompensation() {
	r.Status = StatusCompensating
	r.Timestamps = r.Timestamps.Update()
}

// Fail marks the run as failed after compensation has been attempted.
func (r *Run) Fail() {
	r.Status = StatusFailed
	r.Timestamps = r.Timestamps.Update()
}

// Confirm marks the run as confirmed.
func (r *Run) Confirm() {
	r.Status = StatusConfirmed
	r.Timestamps = r.Timestamps.Update()
}

// PendingCompensations returns the accumulated compensation entries in the
// order they must execute: most recently completed step first.
func (r *Run) PendingCompensations() []CompensationEntry {
	reversed := make([]CompensationEntry, 0, len(r.Compensations))
	for i := len(r.Compensations) - 1; i >= 0; i-- {
		reversed = append(reversed, r.Compensations[i])
	}
	return reversed
}
