package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrListOrderNotificationsQueryIsNotConstructed = errors.New(
	"ListOrderNotificationsQuery must be created via NewListOrderNotificationsQuery constructor",
)

// ListOrderNotificationsQuery returns the notification log of one order in
// the order the intents were emitted.
type ListOrderNotificationsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListOrderNotificationsQuery(orderID kernel.UUID) (ListOrderNotificationsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return ListOrderNotificationsQuery{}, err
	}
	return ListOrderNotificationsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrderNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListOrderNotificationsQueryIsNotConstructed)
}

func (q ListOrderNotificationsQuery) OrderID() kernel.UUID { return q.orderID }

type ListOrderNotificationsQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewListOrderNotificationsQueryHandler(factory ReadRepositoriesFactory) ListOrderNotificationsQueryHandler {
	return ListOrderNotificationsQueryHandler{factory: factory}
}

// Handle fails with ObjectNotFoundError when the order does not exist.
func (h ListOrderNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListOrderNotificationsQuery,
) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	repos := h.factory.Create()
	if _, err := repos.OrderRepository().Get(ctx, query.OrderID()); err != nil {
		return nil, err
	}
	intents, err := repos.NotificationRepository().ListByOrder(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	views := make([]NotificationView, 0, len(intents))
	for _, i := range intents {
		views = append(views, NewNotificationView(i))
	}
	return views, nil
}
