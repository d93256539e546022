package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// State is the flattened, persistence-friendly shape of an Order. Adapters
// write it field by field and hand it back to Restore, which rebuilds the
// stage variant and re-checks every invariant.
type State struct {
	ID               kernel.UUID
	Code             Code
	Customer         kernel.Contact
	Product          string
	Quantity         int
	InstallationDate time.Time
	Instructions     string
	IdempotencyKey   string

	Status            Status
	StockRequestID    *kernel.UUID
	RejectedByRole    kernel.Role
	RejectionReason   string
	Installer         *InstallerSnapshot
	ScheduledDate     *time.Time
	DispatchNotes     string
	Report            *Report
	DispatchNote      *string
	EscalationMessage *string

	Timeline  []TimelineEntry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State flattens the order for persistence.
func (o *Order) State() State {
	s := State{
		ID:                o.id,
		Code:              o.code,
		Customer:          o.details.Customer,
		Product:           o.details.Product,
		Quantity:          o.details.Quantity,
		InstallationDate:  o.details.InstallationDate,
		Instructions:      o.details.Instructions,
		IdempotencyKey:    o.idempotencyKey,
		Status:            o.Status(),
		DispatchNote:      o.dispatchNote,
		EscalationMessage: o.escalationMessage,
		Timeline:          o.Timeline(),
		CreatedAt:         o.createdAt,
		UpdatedAt:         o.updatedAt,
	}

	switch st := o.stage.(type) {
	case HodPendingStage:
		id := st.RequestID
		s.StockRequestID = &id
	case RejectedStage:
		s.RejectedByRole = st.Role
		s.RejectionReason = st.Reason
	case DispatchedStage:
		s.setAssignment(st.Assignment)
	case InstalledStage:
		s.setAssignment(st.Assignment)
		report := st.Report
		s.Report = &report
	}
	return s
}

func (s *State) setAssignment(a Assignment) {
	installer := a.Installer
	date := a.ScheduledDate
	s.Installer = &installer
	s.ScheduledDate = &date
	s.DispatchNotes = a.Notes
}

// Restore rebuilds an Order from persisted state. The restored order treats
// its whole timeline as already persisted.
func Restore(s State) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Code.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	stage, err := stageFromState(s)
	if err != nil {
		return nil, err
	}
	if err = validateTimeline(s.Timeline, s.Status); err != nil {
		return nil, err
	}

	timeline := make([]TimelineEntry, len(s.Timeline))
	copy(timeline, s.Timeline)

	return &Order{
		id:   s.ID,
		code: s.Code,
		details: Details{
			Customer:         s.Customer,
			Product:          s.Product,
			Quantity:         s.Quantity,
			InstallationDate: s.InstallationDate,
			Instructions:     s.Instructions,
		},
		idempotencyKey:    s.IdempotencyKey,
		stage:             stage,
		dispatchNote:      s.DispatchNote,
		escalationMessage: s.EscalationMessage,
		timeline:          timeline,
		persisted:         len(timeline),
		loadedStatus:      s.Status,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		isConstructed:     true,
	}, nil
}

// stageFromState picks the stage variant for the persisted status and refuses
// payload fields that do not belong to it.
func stageFromState(s State) (Stage, error) {
	if s.Report != nil && s.Status != Installed {
		return nil, misplaced("installation report", s.Status)
	}
	if s.Installer != nil && s.Status != Dispatched && s.Status != Installed {
		return nil, misplaced("installer", s.Status)
	}
	if s.StockRequestID != nil && s.Status != HodPending {
		return nil, misplaced("stock request", s.Status)
	}

	switch s.Status {
	case Created:
		return CreatedStage{}, nil
	case Verified:
		return VerifiedStage{}, nil
	case HodPending:
		if s.StockRequestID == nil {
			return nil, errs.NewValueIsRequiredError("stock request id")
		}
		return HodPendingStage{RequestID: *s.StockRequestID}, nil
	case Rejected:
		return RejectedStage{Role: s.RejectedByRole, Reason: s.RejectionReason}, nil
	case Dispatched, Installed:
		if s.Installer == nil || s.ScheduledDate == nil {
			return nil, errs.NewValueIsRequiredError("installer assignment")
		}
		assignment := Assignment{Installer: *s.Installer, ScheduledDate: *s.ScheduledDate, Notes: s.DispatchNotes}
		if s.Status == Dispatched {
			return DispatchedStage{Assignment: assignment}, nil
		}
		if s.Report == nil {
			return nil, errs.NewValueIsRequiredError("installation report")
		}
		return InstalledStage{Assignment: assignment, Report: *s.Report}, nil
	default:
		return nil, s.Status.Validate()
	}
}

func misplaced(field string, status Status) error {
	return errs.NewValueIsInvalidErrorWithCause(field, fmt.Errorf("not allowed in status %s", status))
}
