package http

import (
	"strings"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SubmitOrderRequest struct {
	Customer         ContactRequest `json:"customer"`
	Product          string         `json:"product"`
	Quantity         int            `json:"quantity"`
	InstallationDate Date           `json:"installationDate"`
	Instructions     string         `json:"instructions"`
}

func (r SubmitOrderRequest) details() (order.Details, error) {
	customer, err := kernel.NewContact(r.Customer.Name, r.Customer.Email, r.Customer.Phone, r.Customer.Address)
	if err != nil {
		return order.Details{}, err
	}
	return order.Details{
		Customer:         customer,
		Product:          r.Product,
		Quantity:         r.Quantity,
		InstallationDate: r.InstallationDate.Time,
		Instructions:     r.Instructions,
	}, nil
}

type VerifyStockRequest struct {
	Note string `json:"note"`
}

// EscalateStockRequest may leave product and quantity empty; the order's
// own product and quantity are used then.
type EscalateStockRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Message  string `json:"message"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type DispatchOrderRequest struct {
	InstallerID   string `json:"installerId"`
	ScheduledDate Date   `json:"scheduledDate"`
	Notes         string `json:"notes"`
}

type CompleteInstallationRequest struct {
	ProductModel    string             `json:"productModel"`
	ProductSerial   string             `json:"productSerial"`
	StartedAt       time.Time          `json:"startedAt"`
	FinishedAt      time.Time          `json:"finishedAt"`
	Site            order.SiteLocation `json:"site"`
	Readings        order.Readings     `json:"readings"`
	Remarks         string             `json:"remarks"`
	Challenges      string             `json:"challenges"`
	Recommendations string             `json:"recommendations"`
	Charges         ChargesRequest     `json:"charges"`
	Feedback        order.Feedback     `json:"feedback"`
}

// ChargesRequest takes the amount as a JSON number or a decimal string.
type ChargesRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

func (r CompleteInstallationRequest) draft() order.ReportDraft {
	return order.ReportDraft{
		ProductModel:    r.ProductModel,
		ProductSerial:   r.ProductSerial,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		Site:            r.Site,
		Readings:        r.Readings,
		Remarks:         r.Remarks,
		Challenges:      r.Challenges,
		Recommendations: r.Recommendations,
		Charges:         order.Charges{Amount: r.Charges.Amount, Reason: r.Charges.Reason},
		Feedback:        r.Feedback,
	}
}

type OpenStockRequestRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Message  string `json:"message"`
}

type RegisterInstallerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Date accepts either a calendar date (2006-01-02) or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return t.UTC(), nil
}

// TransitionResponse is returned by every state-changing endpoint.
type TransitionResponse struct {
	Order         *queries.OrderView         `json:"order,omitempty"`
	StockRequest  *queries.StockRequestView  `json:"stockRequest,omitempty"`
	Installer     *queries.InstallerView     `json:"installer,omitempty"`
	Notifications []queries.NotificationView `json:"notifications"`
	Replayed      bool                       `json:"replayed,omitempty"`
}

func newTransitionResponse(res commands.TransitionResult) TransitionResponse {
	out := TransitionResponse{
		Notifications: make([]queries.NotificationView, 0, len(res.Notifications)),
		Replayed:      res.Replayed,
	}
	if res.Order != nil {
		v := queries.NewOrderView(res.Order)
		out.Order = &v
	}
	if res.StockRequest != nil {
		v := queries.NewStockRequestView(res.StockRequest)
		out.StockRequest = &v
	}
	if res.Installer != nil {
		v := queries.NewInstallerView(res.Installer)
		out.Installer = &v
	}
	for _, intent := range res.Notifications {
		out.Notifications = append(out.Notifications, queries.NewNotificationView(intent))
	}
	return out
}
