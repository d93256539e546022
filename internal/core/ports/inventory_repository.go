package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
)

// InventoryRepository stores per-product quantities. It exposes no decrement.
type InventoryRepository interface {
	// Increase atomically adds delta to the product, creating the record on
	// first use, and reports the quantity before and after.
	Increase(ctx context.Context, product string, delta int, actor string, at time.Time) (inventory.Change, error)

	// Get returns the record, or an empty one with quantity 0 for unknown products.
	Get(ctx context.Context, product string) (inventory.Record, error)

	// List returns all records ordered by product name.
	List(ctx context.Context) ([]inventory.Record, error)
}
