package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/ports"
)

// InventoryLedger is the only writer of on-hand quantities. It can only add.
type InventoryLedger struct {
	repo ports.InventoryRepository
}

func NewInventoryLedger(repo ports.InventoryRepository) InventoryLedger {
	return InventoryLedger{repo: repo}
}

// Get returns the quantity on hand, 0 for unknown products.
func (l InventoryLedger) Get(ctx context.Context, product string) (int, error) {
	r, err := l.repo.Get(ctx, inventory.NormalizeProduct(product))
	if err != nil {
		return 0, err
	}
	return r.Quantity(), nil
}

// Increase adds delta through the store's atomic increment.
func (l InventoryLedger) Increase(ctx context.Context, product string, delta int, actor string, now time.Time) (inventory.Change, error) {
	if err := inventory.ValidateDelta(delta); err != nil {
		return inventory.Change{}, err
	}
	return l.repo.Increase(ctx, inventory.NormalizeProduct(product), delta, actor, now)
}

func (l InventoryLedger) List(ctx context.Context) ([]inventory.Record, error) {
	return l.repo.List(ctx)
}
