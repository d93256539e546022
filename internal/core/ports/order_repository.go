// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the unit of work, the idempotency store and the
// notification sender.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderFilter narrows order listings. Zero fields do not filter.
// From and To bound the creation time, inclusive of From and exclusive of To.
type OrderFilter struct {
	Status *order.Status
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Parameter names of the ConflictError values Add reports.
const (
	ConflictOnIdempotencyKey = "idempotency key"
	ConflictOnOrderCode      = "order code"
)

// OrderRepository defines the persistence contract for order aggregates and
// their timelines.
type OrderRepository interface {
	// Add persists a new order together with its timeline.
	// A duplicate idempotency key or code fails with a ConflictError named
	// ConflictOnIdempotencyKey or ConflictOnOrderCode.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order if and only if the stored status still equals
	// aggregate.LoadedStatus(), and appends aggregate.NewTimelineEntries().
	// A lost race fails with an InvalidTransitionError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id, or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCode retrieves an order by its human order code.
	GetByCode(ctx context.Context, code order.Code) (*order.Order, error)

	// GetByIdempotencyKey retrieves the order submitted with key.
	GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)

	// List returns orders newest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
