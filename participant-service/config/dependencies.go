package config

import (
	"github.com/orderflow/reservation-system/participant-service/application"
	"github.com/orderflow/reservation-system/participant-service/domain"
	"github.com/orderflow/reservation-system/participant-service/handlers"
	"github.com/pkg/errors"
)

// Dependencies wires one participant role end to end.
type Dependencies struct {
	Store *domain.Store

	Reserve *application.Reserve
	Cancel  *application.Cancel

	ParticipantHandlers *handlers.ParticipantHandlers
}

// BuildDependencies constructs the store, use cases, and handlers for the
// given participant role.
func BuildDependencies(role string) (*Dependencies, error) {
	deps := &Dependencies{}

	store, err := domain.NewStore(domain.Role(role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create reservation store")
	}
	deps.Store = store

	deps.Reserve = application.NewReserve(store)
	deps.Cancel = application.NewCancel(store)

	deps.ParticipantHandlers = handlers.NewParticipantHandlers(store.Role(), deps.Reserve, deps.Cancel)

	return deps, nil
}
