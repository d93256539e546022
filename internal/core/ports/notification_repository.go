package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// NotificationRepository is the append-only notification log. Only delivery
// bookkeeping and the open counter change after an intent is appended.
type NotificationRepository interface {
	Append(ctx context.Context, intent *notification.Intent) error

	// UpdateDelivery writes delivery status, attempts and last error.
	UpdateDelivery(ctx context.Context, intent *notification.Intent) error

	// IncrementOpenCount atomically adds one to the open counter.
	IncrementOpenCount(ctx context.Context, id kernel.UUID) error

	Get(ctx context.Context, id kernel.UUID) (*notification.Intent, error)

	// ListByOrder returns the intents of an order oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*notification.Intent, error)

	// ListUndelivered returns failed intents with fewer than maxAttempts
	// attempts, oldest first, at most limit of them.
	ListUndelivered(ctx context.Context, maxAttempts, limit int) ([]*notification.Intent, error)
}
