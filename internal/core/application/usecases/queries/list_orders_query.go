package queries

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const MaxListOrdersLimit = 500

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders newest first, optionally narrowed to a status
// and a creation window [from, to).
//
// Example:
//
//	query, err := NewListOrdersQuery("hod_pending", nil, nil, 0)
//	if err != nil {
//	    return err
//	}
//	views, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewListOrdersQuery parses the status name. An empty status lists every
// status; a non-positive limit means MaxListOrdersLimit.
func NewListOrdersQuery(status string, from, to *time.Time, limit int) (ListOrdersQuery, error) {
	q := ListOrdersQuery{guard: guard.NewConstructorGuard()}

	var statusErr, windowErr error
	if status = strings.TrimSpace(status); status != "" {
		s, err := order.ParseStatus(status)
		if err != nil {
			statusErr = err
		} else {
			q.filter.Status = &s
		}
	}
	if from != nil && to != nil && !from.Before(*to) {
		windowErr = errs.NewValueIsInvalidError("date range")
	}
	if err := errors.Join(statusErr, windowErr); err != nil {
		return ListOrdersQuery{}, err
	}

	q.filter.From, q.filter.To = from, to
	if limit <= 0 || limit > MaxListOrdersLimit {
		limit = MaxListOrdersLimit
	}
	q.filter.Limit = limit
	return q, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter { return q.filter }
