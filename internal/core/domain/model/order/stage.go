package order

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Stage is the payload an order carries for its current status. The set of
// implementations is closed: each status has exactly one stage type, so data
// that only makes sense in one status (an installation report, a rejection
// reason) cannot be attached to any other.
type Stage interface {
	Status() Status
	isStage()
}

type CreatedStage struct{}

type VerifiedStage struct{}

// HodPendingStage links the order to the stock request awaiting a decision.
type HodPendingStage struct {
	RequestID kernel.UUID
}

// RejectedStage records who rejected the order and why.
type RejectedStage struct {
	Role   kernel.Role
	Reason string
}

// DispatchedStage carries the installer assignment.
type DispatchedStage struct {
	Assignment Assignment
}

// InstalledStage keeps the assignment and adds the installation report.
type InstalledStage struct {
	Assignment Assignment
	Report     Report
}

func (CreatedStage) Status() Status    { return Created }
func (VerifiedStage) Status() Status   { return Verified }
func (HodPendingStage) Status() Status { return HodPending }
func (RejectedStage) Status() Status   { return Rejected }
func (DispatchedStage) Status() Status { return Dispatched }
func (InstalledStage) Status() Status  { return Installed }

func (CreatedStage) isStage()    {}
func (VerifiedStage) isStage()   {}
func (HodPendingStage) isStage() {}
func (RejectedStage) isStage()   {}
func (DispatchedStage) isStage() {}
func (InstalledStage) isStage()  {}

// InstallerSnapshot is a copy of the installer record taken at dispatch time.
// Later edits to the installer registry do not change dispatched orders.
type InstallerSnapshot struct {
	ID    string
	Name  string
	Phone string
	Email string
}

func (s InstallerSnapshot) Validate() error {
	var emailErr error
	if strings.TrimSpace(s.Email) != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			emailErr = errs.NewValueIsInvalidErrorWithCause("installer email", err)
		}
	}
	return errors.Join(
		requireText("installer id", s.ID),
		requireText("installer name", s.Name),
		emailErr,
	)
}

// Assignment binds an order to an installer for a scheduled date.
type Assignment struct {
	Installer     InstallerSnapshot
	ScheduledDate time.Time
	Notes         string
}

func NewAssignment(installer InstallerSnapshot, scheduledDate time.Time, notes string) (Assignment, error) {
	a := Assignment{
		Installer:     installer,
		ScheduledDate: scheduledDate,
		Notes:         strings.TrimSpace(notes),
	}
	if err := a.Validate(); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (a Assignment) Validate() error {
	var dateErr error
	if a.ScheduledDate.IsZero() {
		dateErr = errs.NewValueIsRequiredError("installation date")
	}
	return errors.Join(a.Installer.Validate(), dateErr)
}

func requireText(param, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
