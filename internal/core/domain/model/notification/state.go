package notification

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// State is the persisted shape of an Intent.
type State struct {
	ID             kernel.UUID
	Tag            Tag
	Category       Category
	Recipient      string
	CC             []string
	Subject        string
	Body           string
	OrderID        *kernel.UUID
	CreatedAt      time.Time
	OpenCount      int
	DeliveryStatus DeliveryStatus
	Attempts       int
	LastError      string
}

func (i *Intent) State() State {
	return State{
		ID:             i.id,
		Tag:            i.tag,
		Category:       i.category,
		Recipient:      i.recipient,
		CC:             i.CC(),
		Subject:        i.subject,
		Body:           i.body,
		OrderID:        i.orderID,
		CreatedAt:      i.createdAt,
		OpenCount:      i.openCount,
		DeliveryStatus: i.deliveryStatus,
		Attempts:       i.attempts,
		LastError:      i.lastError,
	}
}

func Restore(s State) (*Intent, error) {
	if err := errors.Join(s.ID.Validate(), s.Tag.Validate(), s.Category.Validate()); err != nil {
		return nil, err
	}
	return &Intent{
		id:             s.ID,
		tag:            s.Tag,
		category:       s.Category,
		recipient:      s.Recipient,
		cc:             append([]string(nil), s.CC...),
		subject:        s.Subject,
		body:           s.Body,
		orderID:        s.OrderID,
		createdAt:      s.CreatedAt,
		openCount:      s.OpenCount,
		deliveryStatus: s.DeliveryStatus,
		attempts:       s.Attempts,
		lastError:      s.LastError,
		guard:          guard.NewConstructorGuard(),
	}, nil
}
