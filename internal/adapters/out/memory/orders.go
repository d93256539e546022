package memory

import (
	"context"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	state := aggregate.State()
	return r.uow.write(func(t *tables) error {
		id := state.ID.String()
		if _, ok := t.orders[id]; ok {
			return errs.NewConflictError("order", id, "order already exists")
		}
		for _, existing := range t.orders {
			if state.IdempotencyKey != "" && existing.IdempotencyKey == state.IdempotencyKey {
				return errs.NewConflictError(ports.ConflictOnIdempotencyKey, state.IdempotencyKey,
					"already used by order "+existing.ID.String())
			}
			if existing.Code == state.Code {
				return errs.NewConflictError(ports.ConflictOnOrderCode, state.Code.String(), "already taken")
			}
		}
		t.orders[id] = state
		return nil
	})
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	state := aggregate.State()
	expected := aggregate.LoadedStatus()
	return r.uow.write(func(t *tables) error {
		id := state.ID.String()
		stored, ok := t.orders[id]
		if !ok {
			return errs.NewObjectNotFoundError("order", id)
		}
		if stored.Status != expected {
			return errs.NewStaleWriteError("order", id, expected.String(), stored.Status.String())
		}
		t.orders[id] = state
		return nil
	})
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	return r.findOne("order", id.String(), func(s order.State) bool { return s.ID.IsEqual(id) })
}

func (r *orderRepository) GetByCode(_ context.Context, code order.Code) (*order.Order, error) {
	return r.findOne("order code", code.String(), func(s order.State) bool {
		return strings.EqualFold(s.Code.String(), code.String())
	})
}

func (r *orderRepository) GetByIdempotencyKey(_ context.Context, key string) (*order.Order, error) {
	return r.findOne("idempotency key", key, func(s order.State) bool {
		return key != "" && s.IdempotencyKey == key
	})
}

func (r *orderRepository) findOne(param, id string, match func(order.State) bool) (*order.Order, error) {
	var found *order.State
	err := r.uow.read(func(t *tables) error {
		for _, s := range t.orders {
			if match(s) {
				found = &s
				return nil
			}
		}
		return errs.NewObjectNotFoundError(param, id)
	})
	if err != nil {
		return nil, err
	}
	return order.Restore(*found)
}

func (r *orderRepository) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	var states []order.State
	_ = r.uow.read(func(t *tables) error {
		for _, s := range t.orders {
			if matchesFilter(s, filter) {
				states = append(states, s)
			}
		}
		return nil
	})

	slices.SortFunc(states, func(a, b order.State) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if filter.Limit > 0 && len(states) > filter.Limit {
		states = states[:filter.Limit]
	}

	out := make([]*order.Order, 0, len(states))
	for _, s := range states {
		o, err := order.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func matchesFilter(s order.State, f ports.OrderFilter) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.From != nil && s.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}
