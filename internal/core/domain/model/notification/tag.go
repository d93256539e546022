package notification

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Tag names the event a notification describes.
type Tag string

const (
	TagOrderSubmitted       Tag = "order-submitted"
	TagStockVerified        Tag = "stock-verified"
	TagStockEscalated       Tag = "stock-escalated"
	TagStockApproved        Tag = "stock-approved"
	TagStockRejected        Tag = "stock-rejected"
	TagOrderRejected        Tag = "order-rejected"
	TagDispatchAssigned     Tag = "dispatch-assigned"
	TagInstallationComplete Tag = "installation-complete"
)

func Tags() []Tag {
	return []Tag{
		TagOrderSubmitted,
		TagStockVerified,
		TagStockEscalated,
		TagStockApproved,
		TagStockRejected,
		TagOrderRejected,
		TagDispatchAssigned,
		TagInstallationComplete,
	}
}

func (t Tag) Validate() error {
	for _, known := range Tags() {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("notification tag", fmt.Errorf("%q is not a known tag", string(t)))
}

// Category is a class of recipient. Every category except Customer and
// Installer resolves to a configured team mailbox.
type Category string

const (
	CategoryCustomer  Category = "customer"
	CategoryStock     Category = "stock"
	CategorySales     Category = "sales"
	CategoryHOD       Category = "hod"
	CategoryDispatch  Category = "dispatch"
	CategoryInstaller Category = "installer"
)

func (c Category) Validate() error {
	switch c {
	case CategoryCustomer, CategoryStock, CategorySales, CategoryHOD, CategoryDispatch, CategoryInstaller:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("recipient category", fmt.Errorf("%q is not a known category", string(c)))
	}
}

// DeliveryStatus is the outcome of the latest delivery attempt.
type DeliveryStatus int

const (
	DeliveryUnknown DeliveryStatus = iota
	DeliveryPending
	DeliverySent
	DeliveryFailed
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryPending:
		return "pending"
	case DeliverySent:
		return "sent"
	case DeliveryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	for _, st := range []DeliveryStatus{DeliveryPending, DeliverySent, DeliveryFailed} {
		if st.String() == s {
			return st, nil
		}
	}
	return DeliveryUnknown, errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%q is not a valid status", s))
}
