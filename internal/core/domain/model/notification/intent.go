package notification

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrIntentIsNotConstructed = errors.New("Intent must be created via NewIntent constructor")

// Intent is one planned message to one primary recipient.
type Intent struct {
	id        kernel.UUID
	tag       Tag
	category  Category
	recipient string
	cc        []string
	subject   string
	body      string
	orderID   *kernel.UUID
	createdAt time.Time

	openCount      int
	deliveryStatus DeliveryStatus
	attempts       int
	lastError      string

	guard guard.ConstructorGuard
}

// Message is the content part of an intent as produced by the planner.
type Message struct {
	Tag       Tag
	Category  Category
	Recipient string
	CC        []string
	Subject   string
	Body      string
	OrderID   *kernel.UUID
}

// NewIntent validates the message and creates a pending intent.
func NewIntent(id kernel.UUID, msg Message, now time.Time) (*Intent, error) {
	var recipientErr error
	if _, err := mail.ParseAddress(msg.Recipient); err != nil {
		recipientErr = errs.NewValueIsInvalidErrorWithCause("recipient", err)
	}

	var subjectErr error
	if strings.TrimSpace(msg.Subject) == "" {
		subjectErr = errs.NewValueIsRequiredError("subject")
	}

	if err := errors.Join(
		id.Validate(),
		msg.Tag.Validate(),
		msg.Category.Validate(),
		recipientErr,
		subjectErr,
	); err != nil {
		return nil, err
	}

	return &Intent{
		id:             id,
		tag:            msg.Tag,
		category:       msg.Category,
		recipient:      strings.TrimSpace(msg.Recipient),
		cc:             dedupe(msg.CC, msg.Recipient),
		subject:        msg.Subject,
		body:           msg.Body,
		orderID:        msg.OrderID,
		createdAt:      now,
		deliveryStatus: DeliveryPending,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (i *Intent) Validate() error {
	if i == nil {
		return ErrIntentIsNotConstructed
	}
	return i.guard.Validate(ErrIntentIsNotConstructed)
}

func (i *Intent) ID() kernel.UUID                { return i.id }
func (i *Intent) Tag() Tag                       { return i.tag }
func (i *Intent) Category() Category             { return i.category }
func (i *Intent) Recipient() string              { return i.recipient }
func (i *Intent) CC() []string                   { return append([]string(nil), i.cc...) }
func (i *Intent) Subject() string                { return i.subject }
func (i *Intent) Body() string                   { return i.body }
func (i *Intent) OrderID() *kernel.UUID          { return i.orderID }
func (i *Intent) CreatedAt() time.Time           { return i.createdAt }
func (i *Intent) OpenCount() int                 { return i.openCount }
func (i *Intent) DeliveryStatus() DeliveryStatus { return i.deliveryStatus }
func (i *Intent) Attempts() int                  { return i.attempts }
func (i *Intent) LastError() string              { return i.lastError }

// MarkSent records a successful hand-off to the sender.
func (i *Intent) MarkSent() {
	i.attempts++
	i.deliveryStatus = DeliverySent
	i.lastError = ""
}

// MarkFailed records a failed attempt. The cause is kept as text only.
func (i *Intent) MarkFailed(cause error) {
	i.attempts++
	i.deliveryStatus = DeliveryFailed
	if cause != nil {
		i.lastError = cause.Error()
	}
}

// RecordOpened increments the open counter.
func (i *Intent) RecordOpened() {
	i.openCount++
}

// dedupe drops blanks, duplicates and the primary recipient from a cc list.
func dedupe(cc []string, recipient string) []string {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(recipient)): true}
	out := make([]string, 0, len(cc))
	for _, addr := range cc {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, addr)
	}
	return out
}
