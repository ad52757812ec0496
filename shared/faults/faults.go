package faults

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure for status mapping at the API boundary.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindTransport    Kind = "transport"
	KindCompensation Kind = "compensation"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// Fault is the single failure shape exchanged between the gateway, the
// orchestrator and the HTTP handlers. Action is the human-readable label of
// the operation that failed ("Payment reservation", "inventory cancel");
// Reason is the participant-reported or transport-level cause.
type Fault struct {
	Kind   Kind
	Action string
	Reason string
	cause  error
}

func (f *Fault) Error() string {
	if f.Action != "" {
		return fmt.Sprintf("%s failed: %s", f.Action, f.Reason)
	}
	return f.Reason
}

func (f *Fault) Unwrap() error {
	return f.cause
}

// Validation reports a malformed or incomplete request.
func Validation(reason string) *Fault {
	return &Fault{Kind: KindValidation, Reason: reason}
}

// Conflict reports a participant explicitly refusing a reservation.
func Conflict(reason string) *Fault {
	return &Fault{Kind: KindConflict, Reason: reason}
}

// Upstream reports a participant call that came back with an error status.
func Upstream(action, reason string) *Fault {
	return &Fault{Kind: KindConflict, Action: action, Reason: reason}
}

// Transport reports an unreachable participant or a timed-out call.
func Transport(action string, cause error) *Fault {
	return &Fault{Kind: KindTransport, Action: action, Reason: cause.Error(), cause: cause}
}

// NotFound reports a lookup miss.
func NotFound(reason string) *Fault {
	return &Fault{Kind: KindNotFound, Reason: reason}
}

// Internal wraps an unanticipated error.
func Internal(action string, cause error) *Fault {
	return &Fault{Kind: KindInternal, Action: action, Reason: cause.Error(), cause: cause}
}

// KindOf extracts the fault kind from err, defaulting to KindInternal for
// errors that did not originate as a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found fault.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// AsFault coerces err into a Fault, wrapping foreign errors as internal
// faults tagged with the given action label.
func AsFault(err error, action string) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return Internal(action, err)
}
