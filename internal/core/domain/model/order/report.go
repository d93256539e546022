package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	minRating = 1
	maxRating = 5
)

// SiteLocation is the installation address as recorded by the installer.
type SiteLocation struct {
	Address  string `json:"address"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

// Readings are the free-form technical measurements taken after installation.
type Readings struct {
	Voltage     string `json:"voltage,omitempty"`
	Current     string `json:"current,omitempty"`
	Pressure    string `json:"pressure,omitempty"`
	Temperature string `json:"temperature,omitempty"`
}

// Charges are extra amounts billed on site. A positive amount needs a reason.
type Charges struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}

func (c Charges) Validate() error {
	if c.Amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("charge amount",
			fmt.Errorf("%s is less than 0", c.Amount.String()))
	}
	if c.Amount.IsPositive() && strings.TrimSpace(c.Reason) == "" {
		return errs.NewValueIsRequiredError("charge reason")
	}
	return nil
}

// Feedback is the customer's rating of the visit.
type Feedback struct {
	Rating    int    `json:"rating"`
	Satisfied bool   `json:"satisfied"`
	Comment   string `json:"comment,omitempty"`
}

func (f Feedback) Validate() error {
	if f.Rating < minRating || f.Rating > maxRating {
		return errs.NewValueIsOutOfRangeError("customer rating", f.Rating, minRating, maxRating)
	}
	return nil
}

// ReportDraft is what the installer submits. NewReport stamps it into a Report.
type ReportDraft struct {
	ProductModel    string
	ProductSerial   string
	StartedAt       time.Time
	FinishedAt      time.Time
	Site            SiteLocation
	Readings        Readings
	Remarks         string
	Challenges      string
	Recommendations string
	Charges         Charges
	Feedback        Feedback
}

// Report is the installation report. It only ever exists inside InstalledStage.
type Report struct {
	ID              string       `json:"id"`
	CompletedAt     time.Time    `json:"completedAt"`
	ProductModel    string       `json:"productModel,omitempty"`
	ProductSerial   string       `json:"productSerial,omitempty"`
	StartedAt       time.Time    `json:"startedAt"`
	FinishedAt      time.Time    `json:"finishedAt"`
	Site            SiteLocation `json:"site"`
	Readings        Readings     `json:"readings"`
	Remarks         string       `json:"remarks,omitempty"`
	Challenges      string       `json:"challenges,omitempty"`
	Recommendations string       `json:"recommendations,omitempty"`
	Charges         Charges      `json:"charges"`
	Feedback        Feedback     `json:"feedback"`
}

// NewReport validates the draft and assigns the report id RPT-<unix millis>.
// Missing start or finish times default to completedAt.
func NewReport(draft ReportDraft, completedAt time.Time) (Report, error) {
	r := Report{
		ID:              fmt.Sprintf("RPT-%d", completedAt.UnixMilli()),
		CompletedAt:     completedAt,
		ProductModel:    strings.TrimSpace(draft.ProductModel),
		ProductSerial:   strings.TrimSpace(draft.ProductSerial),
		StartedAt:       draft.StartedAt,
		FinishedAt:      draft.FinishedAt,
		Site:            draft.Site,
		Readings:        draft.Readings,
		Remarks:         strings.TrimSpace(draft.Remarks),
		Challenges:      strings.TrimSpace(draft.Challenges),
		Recommendations: strings.TrimSpace(draft.Recommendations),
		Charges:         draft.Charges,
		Feedback:        draft.Feedback,
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = completedAt
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = r.FinishedAt
	}

	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (r Report) Validate() error {
	var orderErr error
	if r.FinishedAt.Before(r.StartedAt) {
		orderErr = errs.NewValueIsInvalidErrorWithCause("installation finish time",
			errors.New("finish time is before start time"))
	}
	return errors.Join(
		requireText("report id", r.ID),
		requireText("site address", r.Site.Address),
		orderErr,
		r.Charges.Validate(),
		r.Feedback.Validate(),
	)
}

// Duration is the time spent on site.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// HasCharges reports whether extra charges were billed.
func (r Report) HasCharges() bool {
	return r.Charges.Amount.IsPositive()
}
