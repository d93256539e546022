package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or Restore.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details is the customer-facing content of an order fixed at submission.
type Details struct {
	Customer         kernel.Contact
	Product          string
	Quantity         int
	InstallationDate time.Time
	Instructions     string
}

func (d Details) Validate() error {
	var customerErr, quantityErr, dateErr error
	if d.Customer.IsZero() {
		customerErr = errs.NewValueIsRequiredError("customer")
	}
	if d.Quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", d.Quantity))
	}
	if d.InstallationDate.IsZero() {
		dateErr = errs.NewValueIsRequiredError("installation date")
	}
	return errors.Join(customerErr, requireText("product name", d.Product), quantityErr, dateErr)
}

// Order is the aggregate root of the fulfillment workflow.
//
// Order follows these invariants:
//   - Status is derived from the stage, so payload and status cannot disagree
//   - The timeline is append-only and its last entry carries the current status
//   - The first timeline entry is Created by the sales role
//   - Every mutation goes through the transition table
//
// The aggregate remembers the status it was loaded with so repositories can
// apply a conditional update keyed on it.
type Order struct {
	id             kernel.UUID
	code           Code
	details        Details
	idempotencyKey string

	stage             Stage
	dispatchNote      *string
	escalationMessage *string

	timeline  []TimelineEntry
	persisted int

	loadedStatus Status
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

// NewOrder creates an order in Created status and writes the first timeline
// entry. The entry is always attributed to the sales role, whoever submitted
// the form, while the actor id keeps the real submitter.
//
// idempotencyKey is optional; when set it must be unique across orders.
func NewOrder(
	id kernel.UUID,
	code Code,
	details Details,
	idempotencyKey string,
	submitter kernel.Principal,
	now time.Time,
) (*Order, error) {
	details.Product = strings.TrimSpace(details.Product)
	details.Instructions = strings.TrimSpace(details.Instructions)

	if err := errors.Join(
		id.Validate(),
		code.Validate(),
		details.Validate(),
		submitter.Validate(),
	); err != nil {
		return nil, err
	}

	o := &Order{
		id:             id,
		code:           code,
		details:        details,
		idempotencyKey: strings.TrimSpace(idempotencyKey),
		stage:          CreatedStage{},
		createdAt:      now,
		updatedAt:      now,
		isConstructed:  true,
	}
	o.timeline = []TimelineEntry{{
		Seq:       1,
		Status:    Created,
		At:        now,
		ActorRole: kernel.RoleSales,
		ActorID:   submitter.ID(),
		Note:      "Order submitted",
	}}
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID             { return o.id }
func (o *Order) Code() Code                  { return o.code }
func (o *Order) Details() Details            { return o.details }
func (o *Order) Customer() kernel.Contact    { return o.details.Customer }
func (o *Order) Product() string             { return o.details.Product }
func (o *Order) Quantity() int               { return o.details.Quantity }
func (o *Order) IdempotencyKey() string      { return o.idempotencyKey }
func (o *Order) Stage() Stage                { return o.stage }
func (o *Order) Status() Status              { return o.stage.Status() }
func (o *Order) CreatedAt() time.Time        { return o.createdAt }
func (o *Order) UpdatedAt() time.Time        { return o.updatedAt }
func (o *Order) DispatchNote() *string       { return o.dispatchNote }
func (o *Order) EscalationMessage() *string  { return o.escalationMessage }
func (o *Order) InstallationDate() time.Time { return o.details.InstallationDate }

// LoadedStatus is the status the order had when it was created or restored.
// Repositories use it as the expected value of a conditional update.
func (o *Order) LoadedStatus() Status {
	return o.loadedStatus
}

// Timeline returns a copy of all entries.
func (o *Order) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, len(o.timeline))
	copy(out, o.timeline)
	return out
}

// NewTimelineEntries returns the entries appended since the order was loaded.
// For a new order this is the whole timeline.
func (o *Order) NewTimelineEntries() []TimelineEntry {
	out := make([]TimelineEntry, len(o.timeline)-o.persisted)
	copy(out, o.timeline[o.persisted:])
	return out
}

// AssignedInstaller returns the installer snapshot for dispatched and installed
// orders, and false otherwise.
func (o *Order) AssignedInstaller() (InstallerSnapshot, bool) {
	switch st := o.stage.(type) {
	case DispatchedStage:
		return st.Assignment.Installer, true
	case InstalledStage:
		return st.Assignment.Installer, true
	default:
		return InstallerSnapshot{}, false
	}
}

// PendingRequestID returns the linked stock request while the order is HodPending.
func (o *Order) PendingRequestID() (kernel.UUID, bool) {
	if st, ok := o.stage.(HodPendingStage); ok {
		return st.RequestID, true
	}
	return kernel.UUID{}, false
}

// Report returns the installation report of an installed order.
func (o *Order) Report() (Report, bool) {
	if st, ok := o.stage.(InstalledStage); ok {
		return st.Report, true
	}
	return Report{}, false
}

// VerifyStock attests that stock is available. The note becomes the dispatch note.
func (o *Order) VerifyStock(actor kernel.Principal, note string, now time.Time) error {
	note = strings.TrimSpace(note)
	if err := o.advance(TransitionVerifyStock, actor, VerifiedStage{}, orDefault(note, "Stock verified"), now); err != nil {
		return err
	}
	if note != "" {
		o.dispatchNote = &note
	}
	return nil
}

// EscalateStock parks the order until the linked stock request is resolved.
func (o *Order) EscalateStock(actor kernel.Principal, requestID kernel.UUID, message string, now time.Time) error {
	if err := requestID.Validate(); err != nil {
		return err
	}
	message = strings.TrimSpace(message)
	if err := o.advance(TransitionEscalateStock, actor, HodPendingStage{RequestID: requestID},
		orDefault(message, "Stock escalated to HOD"), now); err != nil {
		return err
	}
	if message != "" {
		o.escalationMessage = &message
	}
	return nil
}

// ApproveStock releases the order to dispatch after its stock request was approved.
func (o *Order) ApproveStock(actor kernel.Principal, requestID kernel.UUID, now time.Time) error {
	if err := o.checkPendingRequest(TransitionApproveStock, requestID); err != nil {
		return err
	}
	return o.advance(TransitionApproveStock, actor, VerifiedStage{}, "Stock approved by HOD", now)
}

// RejectStock ends the order after its stock request was rejected.
func (o *Order) RejectStock(actor kernel.Principal, requestID kernel.UUID, reason string, now time.Time) error {
	if err := o.checkPendingRequest(TransitionRejectStock, requestID); err != nil {
		return err
	}
	reason = orDefault(strings.TrimSpace(reason), "Stock request rejected")
	return o.advance(TransitionRejectStock, actor, RejectedStage{Role: actor.Role(), Reason: reason}, reason, now)
}

// Reject ends a freshly created order.
func (o *Order) Reject(actor kernel.Principal, reason string, now time.Time) error {
	reason = orDefault(strings.TrimSpace(reason), "Order rejected")
	return o.advance(TransitionRejectOrder, actor, RejectedStage{Role: actor.Role(), Reason: reason}, reason, now)
}

// Dispatch assigns the order to an installer.
func (o *Order) Dispatch(actor kernel.Principal, assignment Assignment, now time.Time) error {
	if err := assignment.Validate(); err != nil {
		return err
	}
	note := fmt.Sprintf("Assigned to %s for %s", assignment.Installer.Name, assignment.ScheduledDate.Format(time.DateOnly))
	return o.advance(TransitionDispatch, actor, DispatchedStage{Assignment: assignment}, note, now)
}

// CompleteInstallation attaches the report and closes the order. Ownership of
// the assignment is checked by the caller before this is invoked.
func (o *Order) CompleteInstallation(actor kernel.Principal, report Report, now time.Time) error {
	if err := report.Validate(); err != nil {
		return err
	}
	dispatched, ok := o.stage.(DispatchedStage)
	if !ok {
		return o.invalidTransition(TransitionCompleteInstallation)
	}
	note := "Installation completed"
	if report.HasCharges() {
		note = fmt.Sprintf("Installation completed with additional charges %s", report.Charges.Amount.StringFixed(2))
	}
	return o.advance(TransitionCompleteInstallation, actor,
		InstalledStage{Assignment: dispatched.Assignment, Report: report}, note, now)
}

// CheckTransition reports whether t may be applied in the current status
// without changing anything.
func (o *Order) CheckTransition(t Transition) error {
	if _, ok := o.Status().Next(t); !ok {
		return o.invalidTransition(t)
	}
	return nil
}

// advance applies one row of the transition table: it checks the current
// status, swaps the stage and appends the timeline entry in one step.
func (o *Order) advance(t Transition, actor kernel.Principal, stage Stage, note string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	next, ok := o.Status().Next(t)
	if !ok {
		return o.invalidTransition(t)
	}
	if stage.Status() != next {
		return fmt.Errorf("%s yields %s but stage is %s", t, next, stage.Status())
	}

	o.stage = stage
	o.timeline = append(o.timeline, TimelineEntry{
		Seq:       len(o.timeline) + 1,
		Status:    next,
		At:        now,
		ActorRole: actor.Role(),
		ActorID:   actor.ID(),
		Note:      note,
	})
	o.updatedAt = now
	return nil
}

func (o *Order) checkPendingRequest(t Transition, requestID kernel.UUID) error {
	pending, ok := o.PendingRequestID()
	if !ok {
		return o.invalidTransition(t)
	}
	if !pending.IsEqual(requestID) {
		return errs.NewConflictError("stock request", requestID.String(),
			fmt.Sprintf("order %s waits on request %s", o.code, pending))
	}
	return nil
}

func (o *Order) invalidTransition(t Transition) error {
	expected := make([]string, 0, 1)
	for _, s := range t.ExpectedFrom() {
		expected = append(expected, s.String())
	}
	return errs.NewInvalidTransitionError("order", o.id.String(), t.String(), expected, o.Status().String())
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
