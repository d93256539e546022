package queries

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrTrackOrderQueryIsNotConstructed = errors.New(
		"TrackOrderQuery must be created via NewTrackOrderQuery constructor",
	)
)

// GetOrderQuery loads one order with its full timeline.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

type GetOrderQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewGetOrderQueryHandler(factory ReadRepositoriesFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{factory: factory}
}

// Handle returns an ObjectNotFoundError for unknown ids.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}
	o, err := h.factory.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	return NewOrderView(o), nil
}

// TrackOrderQuery looks an order up by the code printed on the customer's
// confirmation.
type TrackOrderQuery struct {
	code order.Code

	guard guard.ConstructorGuard
}

// NewTrackOrderQuery accepts the code in any letter case.
func NewTrackOrderQuery(code string) (TrackOrderQuery, error) {
	c, err := order.ParseCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return TrackOrderQuery{}, err
	}
	return TrackOrderQuery{code: c, guard: guard.NewConstructorGuard()}, nil
}

func (q TrackOrderQuery) Validate() error {
	return q.guard.Validate(ErrTrackOrderQueryIsNotConstructed)
}

func (q TrackOrderQuery) Code() order.Code { return q.code }

type TrackOrderQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewTrackOrderQueryHandler(factory ReadRepositoriesFactory) TrackOrderQueryHandler {
	return TrackOrderQueryHandler{factory: factory}
}

func (h TrackOrderQueryHandler) Handle(ctx context.Context, query TrackOrderQuery) (TrackingView, error) {
	if err := query.Validate(); err != nil {
		return TrackingView{}, err
	}
	o, err := h.factory.Create().OrderRepository().GetByCode(ctx, query.Code())
	if err != nil {
		return TrackingView{}, err
	}
	return NewTrackingView(o), nil
}
