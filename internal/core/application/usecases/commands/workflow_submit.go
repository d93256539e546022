package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// maxCodeAttempts bounds retries when a generated order code is already taken.
const maxCodeAttempts = 3

// SubmitOrder creates an order in created status and announces it.
//
// With an idempotency key a repeat returns the order first created with that
// key, flagged Replayed and without notifications. Redis is only consulted as
// a shortcut; the order store's unique key decides races between concurrent
// submits.
func (e *WorkflowEngine) SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}
	key := cmd.IdempotencyKey()

	var (
		result TransitionResult
		err    error
	)
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		result, err = e.submit(ctx, cmd)
		if !errs.IsConflictOn(err, ports.ConflictOnOrderCode) {
			break
		}
		e.logger.WarnContext(ctx, "order code taken, generating another", "attempt", attempt)
	}

	if key != "" && errs.IsConflictOn(err, ports.ConflictOnIdempotencyKey) {
		// A concurrent submit with the same key won the insert.
		existing, readErr := e.uowFactory.Create().OrderRepository().GetByIdempotencyKey(ctx, key)
		if readErr != nil {
			return TransitionResult{}, errs.AsPersistence("read replayed order", readErr)
		}
		return TransitionResult{Order: existing, Replayed: true}, nil
	}
	if err != nil {
		return TransitionResult{}, err
	}

	if key != "" && !result.Replayed {
		e.remember(ctx, key, result.Order.ID())
	}
	return result, nil
}

// submit makes one insert attempt under a freshly generated code.
func (e *WorkflowEngine) submit(ctx context.Context, cmd SubmitOrderCommand) (TransitionResult, error) {
	p, key := cmd.Actor(), cmd.IdempotencyKey()

	return e.run(ctx, p, services.OpSubmitOrder, func(ctx context.Context, uow WorkflowUoW, now time.Time) (outcome, error) {
		orders := uow.OrderRepository()

		if key != "" {
			existing, err := e.findSubmitted(ctx, orders, key)
			if err != nil {
				return outcome{}, err
			}
			if existing != nil {
				return outcome{result: TransitionResult{Order: existing, Replayed: true}}, nil
			}
		}

		o, err := order.NewOrder(kernel.NewUUID(), order.GenerateCode(now), cmd.Details(), key, p, now)
		if err != nil {
			return outcome{}, err
		}
		if err = orders.Add(ctx, o); err != nil {
			return outcome{}, err
		}
		return outcome{
			result: TransitionResult{Order: o},
			event:  announce(notification.TagOrderSubmitted, o, nil, p),
		}, nil
	})
}

// findSubmitted returns the order created with key, or nil when there is none.
func (e *WorkflowEngine) findSubmitted(ctx context.Context, orders ports.OrderRepository, key string) (*order.Order, error) {
	if e.idempotency != nil {
		id, found, err := e.idempotency.Lookup(ctx, key)
		switch {
		case err != nil:
			e.logger.WarnContext(ctx, "idempotency lookup failed", "error", err)
		case found:
			o, err := orders.Get(ctx, id)
			if err == nil {
				return o, nil
			}
			if !errors.Is(err, errs.ErrObjectNotFound) {
				return nil, err
			}
		}
	}

	o, err := orders.GetByIdempotencyKey(ctx, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return o, err
}

func (e *WorkflowEngine) remember(ctx context.Context, key string, orderID kernel.UUID) {
	if e.idempotency == nil {
		return
	}
	if err := e.idempotency.Remember(context.WithoutCancel(ctx), key, orderID); err != nil {
		e.logger.WarnContext(ctx, "failed to cache idempotency key", "order_id", orderID.String(), "error", err)
	}
}
