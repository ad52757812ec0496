package infrastructure

import (
	"github.com/orderflow/reservation-system/orchestrator-service/domain"
	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryOrderLedger is the process-wide order outcome mapping. Outcomes do
// not survive a restart; single-key writes are last-write-wins and no
// cross-key coordination is provided.
type MemoryOrderLedger struct {
	orders *xsync.MapOf[string, domain.OrderOutcome]
}

// NewMemoryOrderLedger creates an empty ledger.
func NewMemoryOrderLedger() *MemoryOrderLedger {
	return &MemoryOrderLedger{
		orders: xsync.NewMapOf[string, domain.OrderOutcome](),
	}
}

// Put stores the outcome under the order identifier.
func (l *MemoryOrderLedger) Put(orderID string, outcome domain.OrderOutcome) {
	l.orders.Store(orderID, outcome)
}

// Get returns the outcome for the order identifier, if any.
func (l *MemoryOrderLedger) Get(orderID string) (domain.OrderOutcome, bool) {
	return l.orders.Load(orderID)
}
