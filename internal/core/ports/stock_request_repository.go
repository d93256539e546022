package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stockrequest"
)

// StockRequestRepository defines the persistence contract for stock requests.
type StockRequestRepository interface {
	// Add persists a new request. A second pending request for the same order
	// fails with a ConflictError.
	Add(ctx context.Context, request *stockrequest.StockRequest) error

	// Update writes a resolved request if the stored status still equals
	// request.LoadedStatus(); otherwise it fails with an InvalidTransitionError.
	Update(ctx context.Context, request *stockrequest.StockRequest) error

	Get(ctx context.Context, id kernel.UUID) (*stockrequest.StockRequest, error)

	// FindPendingByOrder returns the pending request of an order, or an
	// ObjectNotFoundError when there is none.
	FindPendingByOrder(ctx context.Context, orderID kernel.UUID) (*stockrequest.StockRequest, error)

	// ListPending returns pending requests oldest first.
	ListPending(ctx context.Context) ([]*stockrequest.StockRequest, error)
}
