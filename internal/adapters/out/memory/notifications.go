package memory

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"
)

// notificationRepository writes straight to the store; intents are logged
// after the transition they describe has committed.
type notificationRepository struct {
	store *Store
}

func (r *notificationRepository) Append(_ context.Context, intent *notification.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}
	state := intent.State()
	id := state.ID.String()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.intents[id]; ok {
		return errs.NewConflictError("notification intent", id, "intent already logged")
	}
	r.store.intents[id] = state
	r.store.intentOrder = append(r.store.intentOrder, id)
	return nil
}

func (r *notificationRepository) UpdateDelivery(_ context.Context, intent *notification.Intent) error {
	id := intent.ID().String()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.intents[id]
	if !ok {
		return errs.NewObjectNotFoundError("notification intent", id)
	}
	stored.DeliveryStatus = intent.DeliveryStatus()
	stored.Attempts = intent.Attempts()
	stored.LastError = intent.LastError()
	r.store.intents[id] = stored
	return nil
}

func (r *notificationRepository) IncrementOpenCount(_ context.Context, id kernel.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.intents[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("notification intent", id.String())
	}
	stored.OpenCount++
	r.store.intents[id.String()] = stored
	return nil
}

func (r *notificationRepository) Get(_ context.Context, id kernel.UUID) (*notification.Intent, error) {
	r.store.mu.Lock()
	stored, ok := r.store.intents[id.String()]
	r.store.mu.Unlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("notification intent", id.String())
	}
	return notification.Restore(stored)
}

func (r *notificationRepository) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*notification.Intent, error) {
	return r.collect(0, func(s notification.State) bool {
		return s.OrderID != nil && s.OrderID.IsEqual(orderID)
	})
}

func (r *notificationRepository) ListUndelivered(_ context.Context, maxAttempts, limit int) ([]*notification.Intent, error) {
	return r.collect(limit, func(s notification.State) bool {
		return s.DeliveryStatus == notification.DeliveryFailed && s.Attempts < maxAttempts
	})
}

// collect walks the log in append order. limit <= 0 means no limit.
func (r *notificationRepository) collect(limit int, match func(notification.State) bool) ([]*notification.Intent, error) {
	r.store.mu.Lock()
	var states []notification.State
	for _, id := range r.store.intentOrder {
		s := r.store.intents[id]
		if !match(s) {
			continue
		}
		states = append(states, s)
		if limit > 0 && len(states) == limit {
			break
		}
	}
	r.store.mu.Unlock()

	out := make([]*notification.Intent, 0, len(states))
	for _, s := range states {
		intent, err := notification.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, intent)
	}
	return out, nil
}
