package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/pkg/errs"
)

type route struct {
	to []notification.Category
	cc []notification.Category
}

// routes is the recipient table. stock-rejected adds sales at plan time when a
// linked order was rejected with the request.
var routes = map[notification.Tag]route{
	notification.TagOrderSubmitted: {to: []notification.Category{
		notification.CategoryCustomer, notification.CategoryStock, notification.CategorySales,
	}},
	notification.TagStockVerified: {
		to: []notification.Category{notification.CategoryDispatch},
		cc: []notification.Category{notification.CategoryHOD},
	},
	notification.TagStockEscalated: {to: []notification.Category{notification.CategoryHOD}},
	notification.TagStockApproved:  {to: []notification.Category{notification.CategoryStock}},
	notification.TagStockRejected:  {to: []notification.Category{notification.CategoryStock}},
	notification.TagOrderRejected:  {to: []notification.Category{notification.CategorySales}},
	notification.TagDispatchAssigned: {
		to: []notification.Category{notification.CategoryCustomer, notification.CategoryInstaller},
		cc: []notification.Category{notification.CategoryHOD},
	},
	notification.TagInstallationComplete: {to: []notification.Category{
		notification.CategoryHOD, notification.CategoryCustomer,
	}},
}

// Event is a committed transition handed to the planner. Order is nil for
// stock requests that are not linked to an order.
type Event struct {
	Tag     notification.Tag
	Order   *order.Order
	Request *stockrequest.StockRequest
	Actor   kernel.Principal
}

func (ev Event) validate() error {
	if err := ev.Tag.Validate(); err != nil {
		return err
	}
	switch ev.Tag {
	case notification.TagStockEscalated, notification.TagStockApproved, notification.TagStockRejected:
		if ev.Request == nil {
			return errs.NewValueIsRequiredError("stock request")
		}
	default:
		if ev.Order == nil {
			return errs.NewValueIsRequiredError("order")
		}
	}
	return nil
}

// NotificationPlanner decides who hears about a transition and what they read.
type NotificationPlanner struct {
	mailboxes map[notification.Category]Mailbox
	trackURL  string
}

func NewNotificationPlanner(cfg NotificationConfig) *NotificationPlanner {
	mailboxes := make(map[notification.Category]Mailbox, len(cfg.Mailboxes))
	for c, mb := range cfg.Mailboxes {
		mailboxes[c] = mb
	}
	return &NotificationPlanner{mailboxes: mailboxes, trackURL: strings.TrimRight(cfg.TrackURL, "/")}
}

// Recipients returns the primary categories for an event.
func (p *NotificationPlanner) Recipients(ev Event) []notification.Category {
	r := routes[ev.Tag]
	to := append([]notification.Category(nil), r.to...)
	if ev.Tag == notification.TagStockRejected && ev.Order != nil && ev.Order.Status() == order.Rejected {
		to = append(to, notification.CategorySales)
	}
	return to
}

// Plan returns one message per primary recipient category. Categories whose
// address cannot be resolved are skipped and reported in the joined error;
// the remaining messages are still returned.
func (p *NotificationPlanner) Plan(ev Event) ([]notification.Message, error) {
	if err := ev.validate(); err != nil {
		return nil, err
	}

	var ccAddrs []string
	for _, c := range routes[ev.Tag].cc {
		if addr, err := p.address(c, ev); err == nil {
			ccAddrs = append(ccAddrs, addr)
		}
	}

	var orderID *kernel.UUID
	if ev.Order != nil {
		id := ev.Order.ID()
		orderID = &id
	}

	var (
		messages []notification.Message
		problems []error
	)
	for _, c := range p.Recipients(ev) {
		addr, err := p.address(c, ev)
		if err != nil {
			problems = append(problems, err)
			continue
		}

		cc := append([]string(nil), ccAddrs...)
		if mb, ok := p.mailboxes[c]; ok && c != notification.CategoryInstaller {
			cc = append(cc, mb.CC...)
		}

		subject, body := p.compose(ev, c)
		messages = append(messages, notification.Message{
			Tag:       ev.Tag,
			Category:  c,
			Recipient: addr,
			CC:        cc,
			Subject:   subject,
			Body:      body,
			OrderID:   orderID,
		})
	}
	return messages, errors.Join(problems...)
}

func (p *NotificationPlanner) address(c notification.Category, ev Event) (string, error) {
	switch c {
	case notification.CategoryCustomer:
		if ev.Order == nil {
			return "", errs.NewValueIsRequiredError("customer address")
		}
		return ev.Order.Customer().Email(), nil
	case notification.CategoryInstaller:
		if ev.Order != nil {
			if snap, ok := ev.Order.AssignedInstaller(); ok && snap.Email != "" {
				return snap.Email, nil
			}
		}
	}

	mb, ok := p.mailboxes[c]
	if !ok || mb.Address == "" {
		return "", errs.NewValueIsRequiredError(fmt.Sprintf("%s mailbox address", c))
	}
	return mb.Address, nil
}

func (p *NotificationPlanner) compose(ev Event, c notification.Category) (string, string) {
	o, r := ev.Order, ev.Request
	code := ""
	if o != nil {
		code = o.Code().String()
	}

	var b body
	if o != nil {
		b.line("Order", code)
		b.line("Customer", o.Customer().Name())
		b.line("Product", fmt.Sprintf("%s x %d", o.Product(), o.Quantity()))
	}

	var subject string
	switch ev.Tag {
	case notification.TagOrderSubmitted:
		b.line("Installation date", o.InstallationDate().Format(time.DateOnly))
		b.line("Phone", o.Customer().Phone())
		b.line("Address", o.Customer().Address())
		b.line("Instructions", o.Details().Instructions)
		switch c {
		case notification.CategoryCustomer:
			subject = fmt.Sprintf("Order Confirmed #%s - %s", code, o.Product())
			b.line("Track", p.trackLink(code))
		case notification.CategoryStock:
			subject = fmt.Sprintf("New Order #%s - Pending Stock Verification", code)
		default:
			subject = fmt.Sprintf("Order Submitted #%s - %s", code, o.Customer().Name())
		}
	case notification.TagStockVerified:
		subject = fmt.Sprintf("Order Verified #%s - Ready for Dispatch", code)
		b.line("Verified by", ev.Actor.Email())
		if note := o.DispatchNote(); note != nil {
			b.line("Note", *note)
		}
	case notification.TagStockEscalated:
		if o != nil {
			subject = fmt.Sprintf("Stock Required: #%s - %s", code, r.Product())
		} else {
			subject = fmt.Sprintf("Stock Required: %s", r.Product())
		}
		b.line("Requested product", r.Product())
		b.line("Requested quantity", fmt.Sprint(r.Quantity()))
		b.line("Message", r.Message())
		b.line("Requested by", ev.Actor.Email())
	case notification.TagStockApproved:
		subject = fmt.Sprintf("Stock Approved: %s", r.Product())
		b.line("Approved quantity", fmt.Sprint(r.Quantity()))
		if prev, next := r.PreviousStock(), r.NewStock(); prev != nil && next != nil {
			b.line("Stock", fmt.Sprintf("%d -> %d", *prev, *next))
		}
		b.line("Approved by", ev.Actor.Email())
	case notification.TagStockRejected:
		subject = fmt.Sprintf("Stock Request Rejected: %s", r.Product())
		b.line("Requested quantity", fmt.Sprint(r.Quantity()))
		b.line("Reason", r.Reason())
		b.line("Rejected by", ev.Actor.Email())
	case notification.TagOrderRejected:
		subject = fmt.Sprintf("Order Rejected #%s", code)
		if st, ok := o.Stage().(order.RejectedStage); ok {
			b.line("Reason", st.Reason)
		}
		b.line("Rejected by", ev.Actor.Email())
	case notification.TagDispatchAssigned:
		if st, ok := o.Stage().(order.DispatchedStage); ok {
			b.line("Installer", st.Assignment.Installer.Name)
			b.line("Installer phone", st.Assignment.Installer.Phone)
			b.line("Scheduled", st.Assignment.ScheduledDate.Format(time.DateOnly))
			b.line("Notes", st.Assignment.Notes)
		}
		if c == notification.CategoryInstaller {
			subject = fmt.Sprintf("New Installation Assignment #%s", code)
			b.line("Address", o.Customer().Address())
			b.line("Customer phone", o.Customer().Phone())
		} else {
			subject = fmt.Sprintf("Installation Scheduled #%s", code)
		}
	case notification.TagInstallationComplete:
		if c == notification.CategoryCustomer {
			subject = "Installation Complete - Thank You!"
		} else {
			subject = fmt.Sprintf("Installation Complete: Order #%s", code)
		}
		if report, ok := o.Report(); ok {
			b.line("Report", report.ID)
			b.line("Duration", report.Duration().String())
			if report.HasCharges() {
				b.line("Additional charges", fmt.Sprintf("%s (%s)", report.Charges.Amount.StringFixed(2), report.Charges.Reason))
			}
			if c != notification.CategoryCustomer {
				b.line("Customer rating", fmt.Sprintf("%d/5", report.Feedback.Rating))
				b.line("Remarks", report.Remarks)
			}
		}
	}
	return subject, b.String()
}

func (p *NotificationPlanner) trackLink(code string) string {
	if p.trackURL == "" {
		return ""
	}
	return p.trackURL + "/" + code
}

type body struct {
	sb strings.Builder
}

// line appends "key: value", skipping empty values.
func (b *body) line(key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(&b.sb, "%s: %s\n", key, value)
}

func (b *body) String() string {
	return b.sb.String()
}
