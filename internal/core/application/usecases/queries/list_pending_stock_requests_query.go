package queries

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrListPendingStockRequestsQueryIsNotConstructed = errors.New(
	"ListPendingStockRequestsQuery must be created via NewListPendingStockRequestsQuery constructor",
)

// ListPendingStockRequestsQuery is the HOD approval queue, oldest first.
type ListPendingStockRequestsQuery struct {
	guard guard.ConstructorGuard
}

func NewListPendingStockRequestsQuery() ListPendingStockRequestsQuery {
	return ListPendingStockRequestsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListPendingStockRequestsQuery) Validate() error {
	return q.guard.Validate(ErrListPendingStockRequestsQueryIsNotConstructed)
}

type ListPendingStockRequestsQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewListPendingStockRequestsQueryHandler(factory ReadRepositoriesFactory) ListPendingStockRequestsQueryHandler {
	return ListPendingStockRequestsQueryHandler{factory: factory}
}

func (h ListPendingStockRequestsQueryHandler) Handle(
	ctx context.Context,
	query ListPendingStockRequestsQuery,
) ([]StockRequestView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	requests, err := h.factory.Create().StockRequestRepository().ListPending(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]StockRequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, NewStockRequestView(r))
	}
	return views, nil
}
