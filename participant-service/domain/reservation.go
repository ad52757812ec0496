package domain

import (
	"github.com/orderflow/reservation-system/shared/faults"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
)

// Role identifies which reservation service this process plays.
type Role string

const (
	RolePayment   Role = "payment"
	RoleInventory Role = "inventory"
	RoleDelivery  Role = "delivery"
)

// ReserveCommand carries one reservation request. Role-specific fields are
// optional at the wire level; each role validates the ones it requires.
type ReserveCommand struct {
	OrderID   string   `json:"order_id"`
	Amount    *float64 `json:"amount,omitempty"`
	SKU       string   `json:"sku,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
	Slot      string   `json:"slot,omitempty"`
	ForceFail bool     `json:"force_fail"`
}

// Reservation is the record held for one order identifier. Only the fields
// relevant to the owning role are populated.
type Reservation struct {
	OrderID  string
	Amount   float64
	SKU      string
	Quantity int
	Slot     string
}

// definition bundles what distinguishes the three roles: the rejection
// reason used for simulated failures, the required-field validation, and
// how a command maps onto a stored record.
type definition struct {
	conflictReason string
	validate       func(*ReserveCommand) error
	record         func(*ReserveCommand) Reservation
}

var definitions = map[Role]definition{
	RolePayment: {
		conflictReason: "Payment gateway rejected transaction",
		validate: func(cmd *ReserveCommand) error {
			if cmd.Amount == nil || *cmd.Amount <= 0 {
				return faults.Validation("Amount must be positive")
			}
			return nil
		},
		record: func(cmd *ReserveCommand) Reservation {
			return Reservation{OrderID: cmd.OrderID, Amount: *cmd.Amount}
		},
	},
	RoleInventory: {
		conflictReason: "Stock reservation failed",
		validate: func(cmd *ReserveCommand) error {
			if cmd.Quantity == nil {
				return faults.Validation("Quantity is required")
			}
			return nil
		},
		record: func(cmd *ReserveCommand) Reservation {
			return Reservation{OrderID: cmd.OrderID, SKU: cmd.SKU, Quantity: *cmd.Quantity}
		},
	},
	RoleDelivery: {
		conflictReason: "Delivery slot unavailable",
		validate: func(cmd *ReserveCommand) error {
			if cmd.Slot == "" {
				return faults.Validation("Slot is required")
			}
			return nil
		},
		record: func(cmd *ReserveCommand) Reservation {
			return Reservation{OrderID: cmd.OrderID, Slot: cmd.Slot}
		},
	},
}

// Store holds the live reservations for one role, keyed by order
// identifier. At most one record per identifier; a new reserve for the same
// identifier overwrites the prior record. Concurrent access for distinct
// identifiers is safe; same-identifier writes are last-write-wins.
type Store struct {
	role    Role
	def     definition
	records *xsync.MapOf[string, Reservation]
}

// NewStore creates the reservation store for the given role.
func NewStore(role Role) (*Store, error) {
	def, ok := definitions[role]
	if !ok {
		return nil, errors.Errorf("unknown participant role: %s", role)
	}

	return &Store{
		role:    role,
		def:     def,
		records: xsync.NewMapOf[string, Reservation](),
	}, nil
}

// Role returns the role this store serves.
func (s *Store) Role() Role {
	return s.role
}

// Reserve validates the command and stores a reservation keyed by its order
// identifier. A simulated failure rejects the request with the role's
// conflict reason and records nothing.
func (s *Store) Reserve(cmd *ReserveCommand) (*Reservation, error) {
	if cmd.OrderID == "" {
		return nil, faults.Validation("Order ID is required")
	}

	if cmd.ForceFail {
		return nil, faults.Conflict(s.def.conflictReason)
	}

	if err := s.def.validate(cmd); err != nil {
		return nil, err
	}

	reservation := s.def.record(cmd)
	s.records.Store(cmd.OrderID, reservation)
	return &reservation, nil
}

// Cancel removes the reservation for the given order identifier. Cancelling
// an identifier that was never reserved is a no-op, not an error.
func (s *Store) Cancel(orderID string) {
	s.records.Delete(orderID)
}

// Get returns the live reservation for an order identifier, if any.
func (s *Store) Get(orderID string) (Reservation, bool) {
	return s.records.Load(orderID)
}

// Len returns the number of live reservations.
func (s *Store) Len() int {
	return s.records.Size()
}
