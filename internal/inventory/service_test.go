package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/itstock/internal/shared"
)

type memoryStore struct {
	items         []Item
	movements     []Movement
	itemSaves     int
	movementSaves int
	failItems     bool
}

func (m *memoryStore) SaveItems(ctx context.Context, items []Item) error {
	m.itemSaves++
	if m.failItems {
		return errors.New("disk full")
	}
	m.items = items
	return nil
}

func (m *memoryStore) SaveMovements(ctx context.Context, movements []Movement) error {
	m.movementSaves++
	m.movements = movements
	return nil
}

type recordingAudit struct {
	actions []string
}

func (r *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	r.actions = append(r.actions, log.Action)
	return nil
}

type countingMetrics struct {
	applied  map[string]int
	rejected map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{applied: map[string]int{}, rejected: map[string]int{}}
}

func (c *countingMetrics) MovementApplied(kind string)    { c.applied[kind]++ }
func (c *countingMetrics) MovementRejected(reason string) { c.rejected[reason]++ }

func TestServicePersistsAfterEachCommand(t *testing.T) {
	store := &memoryStore{}
	audit := &recordingAudit{}
	svc := NewService(newTestLedger(), store, ServiceConfig{Audit: audit})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ItemInput{Name: "Laptop", Quantity: 2}, "")
	require.NoError(t, err)
	require.Equal(t, 1, store.itemSaves)
	require.Equal(t, 1, store.movementSaves)
	require.Len(t, store.movements, 1)

	qty := 9
	_, err = svc.EditItem(ctx, item.ID, ItemPatch{Quantity: &qty})
	require.NoError(t, err)
	require.Equal(t, 2, store.itemSaves)
	require.Equal(t, 1, store.movementSaves)
	require.Equal(t, 9, store.items[0].Quantity)

	_, _, err = svc.ApplyMovement(ctx, item.ID, MovementExit, 3, "loan")
	require.NoError(t, err)
	require.Equal(t, 3, store.itemSaves)
	require.Equal(t, 2, store.movementSaves)
	require.Len(t, store.movements, 2)

	svc.DeleteItem(ctx, item.ID)
	require.Equal(t, 4, store.itemSaves)
	require.Empty(t, store.items)

	svc.DeleteItem(ctx, item.ID)
	require.Equal(t, 4, store.itemSaves)

	require.Equal(t, []string{"inventory:create", "inventory:edit", "inventory:EXIT", "inventory:delete"}, audit.actions)
}

func TestServiceRejectedCommandDoesNotPersist(t *testing.T) {
	store := &memoryStore{}
	metrics := newCountingMetrics()
	svc := NewService(newTestLedger(), store, ServiceConfig{Metrics: metrics})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ItemInput{Name: "Mouse", Quantity: 10, MinThreshold: 3}, "")
	require.NoError(t, err)

	_, _, err = svc.ApplyMovement(ctx, item.ID, MovementExit, 15, "")
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Equal(t, 1, store.itemSaves)
	require.Equal(t, 1, store.movementSaves)
	require.Equal(t, 1, metrics.rejected["insufficient_stock"])
	require.Equal(t, 1, metrics.applied["ENTRY"])

	_, err = svc.CreateItem(ctx, ItemInput{Name: ""}, "")
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, 1, store.itemSaves)
}

func TestServiceSaveFailureKeepsState(t *testing.T) {
	store := &memoryStore{failItems: true}
	svc := NewService(newTestLedger(), store, ServiceConfig{})
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, ItemInput{Name: "Dock", Quantity: 1}, "")
	require.NoError(t, err)

	got, err := svc.Item(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item, got)
	require.Len(t, svc.Movements(ctx, MovementFilter{}), 1)
}

func TestServiceReceiveByName(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(newTestLedger(), store, ServiceConfig{})
	ctx := context.Background()

	receipt, err := svc.ReceiveByName(ctx, ItemInput{Name: "Hub USB", Quantity: 3}, "")
	require.NoError(t, err)
	require.True(t, receipt.Created)

	receipt, err = svc.ReceiveByName(ctx, ItemInput{Name: "hub usb", Quantity: 2}, "order 7")
	require.NoError(t, err)
	require.False(t, receipt.Created)
	require.Equal(t, 5, receipt.Item.Quantity)
	require.Len(t, store.movements, 2)

	found, err := svc.FindByName(ctx, "HUB USB")
	require.NoError(t, err)
	require.Equal(t, receipt.Item.ID, found.ID)
	require.Equal(t, 5, svc.Summary(ctx).TotalUnits)
}
