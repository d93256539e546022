package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
)

// NotificationSender hands an intent to the delivery transport. Send returns
// only once the transport accepted or refused the intent, and waits a bounded
// time for it.
type NotificationSender interface {
	Send(ctx context.Context, intent *notification.Intent) error
}
