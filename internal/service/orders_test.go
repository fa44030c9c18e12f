package service

import (
	"context"
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepExpired_InclusiveBoundary(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	store.addOrder(cid, "2024-01-01")
	svc := NewOrderService(store, nil)

	// An order maturing today is already gone.
	removed, err := svc.SweepExpired(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Empty(t, store.orders)
}

func TestSweepExpired_FutureOrderSurvives(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	store.addOrder(cid, "2024-01-01")
	svc := NewOrderService(store, nil)

	removed, err := svc.SweepExpired(context.Background(), "2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
	assert.Len(t, store.orders, 1)
}

func TestSweepExpired_Idempotent(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	store.addOrder(cid, "2024-01-01")
	store.addOrder(cid, "2023-12-25")
	store.addOrder(cid, "2024-02-01")
	svc := NewOrderService(store, nil)

	removed, err := svc.SweepExpired(context.Background(), "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// Second sweep with the same date is a no-op.
	removed, err = svc.SweepExpired(context.Background(), "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
	assert.Len(t, store.orders, 1)
}

func TestSweepExpired_RejectsBadDate(t *testing.T) {
	store := newStubStore()
	svc := NewOrderService(store, nil)

	_, err := svc.SweepExpired(context.Background(), "01/15/2024")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAddOrder(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	svc := NewOrderService(store, nil)

	id, err := svc.AddOrder(context.Background(), cid, "2024-03-01")
	require.NoError(t, err)
	assert.NotZero(t, id)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice", orders[0].ClientName)
}

func TestAddOrder_UnknownClient(t *testing.T) {
	store := newStubStore()
	svc := NewOrderService(store, nil)

	_, err := svc.AddOrder(context.Background(), 99, "2024-03-01")
	assert.ErrorIs(t, err, models.ErrClientNotFound)
}

func TestAddOrder_RejectsBadDate(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	svc := NewOrderService(store, nil)

	_, err := svc.AddOrder(context.Background(), cid, "March 1st")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRemoveOrder_IdempotentDelete(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	oid := store.addOrder(cid, "2024-03-01")
	svc := NewOrderService(store, nil)

	require.NoError(t, svc.RemoveOrder(context.Background(), oid))
	// Deleting an id that is already gone does not raise.
	require.NoError(t, svc.RemoveOrder(context.Background(), oid))
	require.NoError(t, svc.RemoveOrder(context.Background(), 12345))
	assert.Empty(t, store.orders)
}

func TestListOrders_ToleratesOrphanedProfile(t *testing.T) {
	store := newStubStore()
	cid := store.addClient("alice")
	store.addOrder(cid, "2024-03-01")
	delete(store.clients, cid)
	svc := NewOrderService(store, nil)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "", orders[0].ClientName)
}
