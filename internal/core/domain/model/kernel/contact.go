package kernel

import (
	"errors"
	"net/mail"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Contact is the customer contact block of an order. All fields are required.
type Contact struct {
	name    string
	email   string
	phone   string
	address string
}

func NewContact(name, email, phone, address string) (Contact, error) {
	c := Contact{
		name:    strings.TrimSpace(name),
		email:   strings.TrimSpace(email),
		phone:   strings.TrimSpace(phone),
		address: strings.TrimSpace(address),
	}

	var emailErr error
	if c.email == "" {
		emailErr = errs.NewValueIsRequiredError("customer email")
	} else if _, err := mail.ParseAddress(c.email); err != nil {
		emailErr = errs.NewValueIsInvalidErrorWithCause("customer email", err)
	}

	if err := errors.Join(
		required("customer name", c.name),
		emailErr,
		required("customer phone", c.phone),
		required("customer address", c.address),
	); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func required(param, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}

func (c Contact) Name() string    { return c.name }
func (c Contact) Email() string   { return c.email }
func (c Contact) Phone() string   { return c.phone }
func (c Contact) Address() string { return c.address }

func (c Contact) IsZero() bool {
	return c == Contact{}
}
