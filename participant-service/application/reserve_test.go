package application

import (
	"context"
	"testing"

	"github.com/orderflow/reservation-system/participant-service/domain"
	"github.com/orderflow/reservation-system/shared/faults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func newInventoryStore(t *testing.T) *domain.Store {
	t.Helper()
	store, err := domain.NewStore(domain.RoleInventory)
	require.NoError(t, err)
	return store
}

func TestReserveExecute(t *testing.T) {
	store := newInventoryStore(t)
	useCase := NewReserve(store)

	response, err := useCase.Execute(context.Background(), &domain.ReserveCommand{
		OrderID:  "o1",
		SKU:      "sku1",
		Quantity: intPtr(2),
	})

	require.NoError(t, err)
	assert.Equal(t, "reserved", response.Status)
	assert.Equal(t, "o1", response.OrderID)

	_, ok := store.Get("o1")
	assert.True(t, ok)
}

func TestReserveExecuteForcedFailure(t *testing.T) {
	store := newInventoryStore(t)
	useCase := NewReserve(store)

	response, err := useCase.Execute(context.Background(), &domain.ReserveCommand{
		OrderID:   "o1",
		SKU:       "sku1",
		Quantity:  intPtr(2),
		ForceFail: true,
	})

	require.Error(t, err)
	assert.Nil(t, response)
	assert.Equal(t, faults.KindConflict, faults.KindOf(err))
	assert.Equal(t, "Stock reservation failed", err.Error())
}

func TestCancelExecuteAlwaysSucceeds(t *testing.T) {
	store := newInventoryStore(t)
	reserve := NewReserve(store)
	cancel := NewCancel(store)

	_, err := reserve.Execute(context.Background(), &domain.ReserveCommand{
		OrderID:  "o1",
		SKU:      "sku1",
		Quantity: intPtr(2),
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		response, err := cancel.Execute(context.Background(), &CancelCommand{OrderID: "o1"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", response.Status)
		assert.Equal(t, "o1", response.OrderID)
	}

	response, err := cancel.Execute(context.Background(), &CancelCommand{OrderID: "never-reserved"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", response.Status)
}
