package stockrequest

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// State is the persisted shape of a StockRequest.
type State struct {
	ID            kernel.UUID
	OrderID       *kernel.UUID
	Product       string
	Quantity      int
	Message       string
	Status        Status
	RequestedAt   time.Time
	RequestedBy   string
	ResolvedAt    *time.Time
	ResolvedBy    string
	Reason        string
	PreviousStock *int
	NewStock      *int
}

func (r *StockRequest) State() State {
	return State{
		ID:            r.id,
		OrderID:       r.orderID,
		Product:       r.product,
		Quantity:      r.quantity,
		Message:       r.message,
		Status:        r.status,
		RequestedAt:   r.requestedAt,
		RequestedBy:   r.requestedBy,
		ResolvedAt:    r.resolvedAt,
		ResolvedBy:    r.resolvedBy,
		Reason:        r.reason,
		PreviousStock: r.previousStock,
		NewStock:      r.newStock,
	}
}

// Restore rebuilds a request read from storage.
func Restore(s State) (*StockRequest, error) {
	var resolutionErr error
	switch {
	case s.Status == Pending && s.ResolvedAt != nil:
		resolutionErr = errs.NewValueIsInvalidErrorWithCause("resolved at", fmt.Errorf("pending request %s has a resolution", s.ID))
	case s.Status != Pending && s.ResolvedAt == nil:
		resolutionErr = errs.NewValueIsRequiredError("resolved at")
	}

	if err := errors.Join(s.ID.Validate(), s.Status.Validate(), resolutionErr); err != nil {
		return nil, err
	}

	return &StockRequest{
		id:            s.ID,
		orderID:       s.OrderID,
		product:       s.Product,
		quantity:      s.Quantity,
		message:       s.Message,
		status:        s.Status,
		requestedAt:   s.RequestedAt,
		requestedBy:   s.RequestedBy,
		resolvedAt:    s.ResolvedAt,
		resolvedBy:    s.ResolvedBy,
		reason:        s.Reason,
		previousStock: s.PreviousStock,
		newStock:      s.NewStock,
		loadedStatus:  s.Status,
		guard:         guard.NewConstructorGuard(),
	}, nil
}
