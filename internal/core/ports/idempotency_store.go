package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// IdempotencyStore is a fast-path cache of submit keys. The order store's
// unique key column stays authoritative; a cache miss is never an error.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (orderID kernel.UUID, found bool, err error)
	Remember(ctx context.Context, key string, orderID kernel.UUID) error
}
