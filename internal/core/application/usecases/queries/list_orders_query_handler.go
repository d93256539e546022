package queries

import (
	"context"
)

// ListOrdersQueryHandler serves the order board.
type ListOrdersQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewListOrdersQueryHandler(factory ReadRepositoriesFactory) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{factory: factory}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.factory.Create().OrderRepository().List(ctx, query.Filter())
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views, nil
}
