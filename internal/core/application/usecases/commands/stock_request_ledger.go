package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// StockRequestLedger keeps at most one pending request per order on top of
// the repository, which backs the same rule with a unique index.
type StockRequestLedger struct {
	repo ports.StockRequestRepository
}

func NewStockRequestLedger(repo ports.StockRequestRepository) StockRequestLedger {
	return StockRequestLedger{repo: repo}
}

// Open creates a pending request. orderID is nil for standalone requests.
func (l StockRequestLedger) Open(
	ctx context.Context,
	orderID *kernel.UUID,
	product string,
	quantity int,
	message string,
	requestedBy kernel.Principal,
	now time.Time,
) (*stockrequest.StockRequest, error) {
	if orderID != nil {
		if err := l.ensureNoPending(ctx, *orderID); err != nil {
			return nil, err
		}
	}

	r, err := stockrequest.NewStockRequest(kernel.NewUUID(), orderID, product, quantity, message, requestedBy, now)
	if err != nil {
		return nil, err
	}
	if err = l.repo.Add(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Pending loads a request and checks it can still be resolved.
func (l StockRequestLedger) Pending(ctx context.Context, id kernel.UUID, operation string) (*stockrequest.StockRequest, error) {
	r, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = r.CheckPending(operation); err != nil {
		return nil, err
	}
	return r, nil
}

// Resolve applies the decision and writes it with a conditional update. An
// approval needs the inventory change it caused.
func (l StockRequestLedger) Resolve(
	ctx context.Context,
	r *stockrequest.StockRequest,
	decision stockrequest.Decision,
	approver kernel.Principal,
	reason string,
	change *inventory.Change,
	now time.Time,
) error {
	var err error
	switch decision {
	case stockrequest.Approve:
		if change == nil {
			return errs.NewValueIsRequiredError("inventory change")
		}
		err = r.Approve(approver, change.Previous, change.Current, now)
	case stockrequest.Reject:
		err = r.Reject(approver, reason, now)
	default:
		err = errs.NewValueIsInvalidError("decision")
	}
	if err != nil {
		return err
	}
	return l.repo.Update(ctx, r)
}

func (l StockRequestLedger) ListPending(ctx context.Context) ([]*stockrequest.StockRequest, error) {
	return l.repo.ListPending(ctx)
}

func (l StockRequestLedger) ensureNoPending(ctx context.Context, orderID kernel.UUID) error {
	existing, err := l.repo.FindPendingByOrder(ctx, orderID)
	switch {
	case err == nil:
		return errs.NewConflictError("stock request", orderID.String(),
			"order already has pending request "+existing.ID().String())
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil
	default:
		return err
	}
}
