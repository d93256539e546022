package memory

import (
	"context"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/pkg/errs"
)

type stockRequestRepository struct {
	uow *UnitOfWork
}

func (r *stockRequestRepository) Add(_ context.Context, request *stockrequest.StockRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}
	state := request.State()
	return r.uow.write(func(t *tables) error {
		id := state.ID.String()
		if _, ok := t.stockRequests[id]; ok {
			return errs.NewConflictError("stock request", id, "stock request already exists")
		}
		if state.OrderID != nil && state.Status == stockrequest.Pending {
			for _, existing := range t.stockRequests {
				if existing.Status == stockrequest.Pending && existing.OrderID != nil && existing.OrderID.IsEqual(*state.OrderID) {
					return errs.NewConflictError("stock request", state.OrderID.String(),
						"order already has pending request "+existing.ID.String())
				}
			}
		}
		t.stockRequests[id] = state
		return nil
	})
}

func (r *stockRequestRepository) Update(_ context.Context, request *stockrequest.StockRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}
	state := request.State()
	expected := request.LoadedStatus()
	return r.uow.write(func(t *tables) error {
		id := state.ID.String()
		stored, ok := t.stockRequests[id]
		if !ok {
			return errs.NewObjectNotFoundError("stock request", id)
		}
		if stored.Status != expected {
			return errs.NewStaleWriteError("stock request", id, expected.String(), stored.Status.String())
		}
		t.stockRequests[id] = state
		return nil
	})
}

func (r *stockRequestRepository) Get(_ context.Context, id kernel.UUID) (*stockrequest.StockRequest, error) {
	var state stockrequest.State
	err := r.uow.read(func(t *tables) error {
		s, ok := t.stockRequests[id.String()]
		if !ok {
			return errs.NewObjectNotFoundError("stock request", id.String())
		}
		state = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stockrequest.Restore(state)
}

func (r *stockRequestRepository) FindPendingByOrder(_ context.Context, orderID kernel.UUID) (*stockrequest.StockRequest, error) {
	var found *stockrequest.State
	err := r.uow.read(func(t *tables) error {
		for _, s := range t.stockRequests {
			if s.Status == stockrequest.Pending && s.OrderID != nil && s.OrderID.IsEqual(orderID) {
				found = &s
				return nil
			}
		}
		return errs.NewObjectNotFoundError("pending stock request for order", orderID.String())
	})
	if err != nil {
		return nil, err
	}
	return stockrequest.Restore(*found)
}

func (r *stockRequestRepository) ListPending(_ context.Context) ([]*stockrequest.StockRequest, error) {
	var states []stockrequest.State
	_ = r.uow.read(func(t *tables) error {
		for _, s := range t.stockRequests {
			if s.Status == stockrequest.Pending {
				states = append(states, s)
			}
		}
		return nil
	})
	slices.SortFunc(states, func(a, b stockrequest.State) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})

	out := make([]*stockrequest.StockRequest, 0, len(states))
	for _, s := range states {
		req, err := stockrequest.Restore(s)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}
