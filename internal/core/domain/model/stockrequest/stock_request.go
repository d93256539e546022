package stockrequest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrStockRequestIsNotConstructed = errors.New("StockRequest must be created via NewStockRequest constructor")

// StockRequest asks the HOD to add quantity of a product to inventory.
type StockRequest struct {
	id          kernel.UUID
	orderID     *kernel.UUID
	product     string
	quantity    int
	message     string
	status      Status
	requestedAt time.Time
	requestedBy string

	resolvedAt    *time.Time
	resolvedBy    string
	reason        string
	previousStock *int
	newStock      *int

	loadedStatus Status
	guard        guard.ConstructorGuard
}

// NewStockRequest opens a pending request. orderID is nil for standalone requests.
func NewStockRequest(
	id kernel.UUID,
	orderID *kernel.UUID,
	product string,
	quantity int,
	message string,
	requestedBy kernel.Principal,
	now time.Time,
) (*StockRequest, error) {
	r := &StockRequest{
		status:      Pending,
		message:     strings.TrimSpace(message),
		requestedAt: now,
		guard:       guard.NewConstructorGuard(),
	}

	var orderErr error
	if orderID != nil {
		if orderErr = orderID.Validate(); orderErr == nil {
			linked := *orderID
			r.orderID = &linked
		}
	}

	if err := errors.Join(
		r.setID(id),
		orderErr,
		r.setProduct(product),
		r.setQuantity(quantity),
		requestedBy.Validate(),
	); err != nil {
		return nil, err
	}
	r.requestedBy = requestedBy.ID()
	return r, nil
}

func (r *StockRequest) Validate() error {
	if r == nil {
		return ErrStockRequestIsNotConstructed
	}
	return r.guard.Validate(ErrStockRequestIsNotConstructed)
}

func (r *StockRequest) ID() kernel.UUID        { return r.id }
func (r *StockRequest) OrderID() *kernel.UUID  { return r.orderID }
func (r *StockRequest) Product() string        { return r.product }
func (r *StockRequest) Quantity() int          { return r.quantity }
func (r *StockRequest) Message() string        { return r.message }
func (r *StockRequest) Status() Status         { return r.status }
func (r *StockRequest) RequestedAt() time.Time { return r.requestedAt }
func (r *StockRequest) RequestedBy() string    { return r.requestedBy }
func (r *StockRequest) ResolvedAt() *time.Time { return r.resolvedAt }
func (r *StockRequest) ResolvedBy() string     { return r.resolvedBy }
func (r *StockRequest) Reason() string         { return r.reason }
func (r *StockRequest) PreviousStock() *int    { return r.previousStock }
func (r *StockRequest) NewStock() *int         { return r.newStock }
func (r *StockRequest) LoadedStatus() Status   { return r.loadedStatus }

// IsLinked reports whether the request was opened for an order.
func (r *StockRequest) IsLinked() bool {
	return r.orderID != nil
}

// CheckPending returns an InvalidTransitionError unless the request is pending.
func (r *StockRequest) CheckPending(operation string) error {
	if r.status != Pending {
		return errs.NewInvalidTransitionError("stock request", r.id.String(), operation,
			[]string{Pending.String()}, r.status.String())
	}
	return nil
}

// Approve resolves the request and records the inventory before and after the increment.
func (r *StockRequest) Approve(approver kernel.Principal, previousStock, newStock int, now time.Time) error {
	if err := r.CheckPending("approveStock"); err != nil {
		return err
	}
	if err := approver.Validate(); err != nil {
		return err
	}
	if newStock != previousStock+r.quantity {
		return errs.NewValueIsInvalidErrorWithCause("new stock",
			fmt.Errorf("%d is not %d + %d", newStock, previousStock, r.quantity))
	}
	r.resolve(Approved, approver, "", now)
	r.previousStock = &previousStock
	r.newStock = &newStock
	return nil
}

// Reject resolves the request without touching inventory.
func (r *StockRequest) Reject(approver kernel.Principal, reason string, now time.Time) error {
	if err := r.CheckPending("rejectStock"); err != nil {
		return err
	}
	if err := approver.Validate(); err != nil {
		return err
	}
	r.resolve(Rejected, approver, strings.TrimSpace(reason), now)
	return nil
}

func (r *StockRequest) resolve(status Status, approver kernel.Principal, reason string, now time.Time) {
	r.status = status
	r.resolvedAt = &now
	r.resolvedBy = approver.ID()
	r.reason = reason
}

func (r *StockRequest) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *StockRequest) setProduct(product string) error {
	product = strings.TrimSpace(product)
	if product == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	r.product = product
	return nil
}

func (r *StockRequest) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("requested quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	r.quantity = quantity
	return nil
}
