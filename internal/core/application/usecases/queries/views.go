// Package queries contains the read side: order lookups and listings, the
// pending stock queue, inventory, installers and the notification log. Query
// handlers read through repositories without opening a transaction.
package queries

import (
	"time"

	"fulfillment/internal/core/domain/model/installer"
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/core/ports"
)

// ReadRepositories is the subset of a unit of work the read side uses.
type ReadRepositories interface {
	OrderRepository() ports.OrderRepository
	StockRequestRepository() ports.StockRequestRepository
	InventoryRepository() ports.InventoryRepository
	InstallerRepository() ports.InstallerRepository
	NotificationRepository() ports.NotificationRepository
}

type ReadRepositoriesFactory interface {
	Create() ReadRepositories
}

type ContactView struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type InstallerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type TimelineEntryView struct {
	Seq       int       `json:"seq"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	ActorRole string    `json:"actorRole"`
	ActorID   string    `json:"actorId"`
	Note      string    `json:"note,omitempty"`
}

// OrderView is the full read model of an order. Stage fields are set only
// for the statuses that carry them.
type OrderView struct {
	ID                string              `json:"id"`
	Code              string              `json:"orderCode"`
	Status            string              `json:"status"`
	Customer          ContactView         `json:"customer"`
	Product           string              `json:"product"`
	Quantity          int                 `json:"quantity"`
	InstallationDate  time.Time           `json:"installationDate"`
	Instructions      string              `json:"instructions,omitempty"`
	DispatchNote      *string             `json:"dispatchNote,omitempty"`
	EscalationMessage *string             `json:"escalationMessage,omitempty"`
	StockRequestID    *string             `json:"stockRequestId,omitempty"`
	RejectedByRole    string              `json:"rejectedByRole,omitempty"`
	RejectionReason   string              `json:"rejectionReason,omitempty"`
	Installer         *InstallerView      `json:"installer,omitempty"`
	ScheduledDate     *time.Time          `json:"scheduledDate,omitempty"`
	DispatchNotes     string              `json:"dispatchNotes,omitempty"`
	Report            *order.Report       `json:"installationReport,omitempty"`
	Timeline          []TimelineEntryView `json:"timeline"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

func NewOrderView(o *order.Order) OrderView {
	s := o.State()
	c := s.Customer
	v := OrderView{
		ID:                s.ID.String(),
		Code:              s.Code.String(),
		Status:            s.Status.String(),
		Customer:          ContactView{Name: c.Name(), Email: c.Email(), Phone: c.Phone(), Address: c.Address()},
		Product:           s.Product,
		Quantity:          s.Quantity,
		InstallationDate:  s.InstallationDate,
		Instructions:      s.Instructions,
		DispatchNote:      s.DispatchNote,
		EscalationMessage: s.EscalationMessage,
		RejectedByRole:    s.RejectedByRole.String(),
		RejectionReason:   s.RejectionReason,
		ScheduledDate:     s.ScheduledDate,
		DispatchNotes:     s.DispatchNotes,
		Report:            s.Report,
		Timeline:          make([]TimelineEntryView, 0, len(s.Timeline)),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.StockRequestID != nil {
		id := s.StockRequestID.String()
		v.StockRequestID = &id
	}
	if s.Installer != nil {
		v.Installer = &InstallerView{ID: s.Installer.ID, Name: s.Installer.Name, Phone: s.Installer.Phone, Email: s.Installer.Email}
	}
	for _, e := range s.Timeline {
		v.Timeline = append(v.Timeline, TimelineEntryView{
			Seq:       e.Seq,
			Status:    e.Status.String(),
			At:        e.At,
			ActorRole: e.ActorRole.String(),
			ActorID:   e.ActorID,
			Note:      e.Note,
		})
	}
	return v
}

// TrackingView is what a customer sees when tracking by order code.
type TrackingView struct {
	Code             string              `json:"orderCode"`
	Status           string              `json:"status"`
	Product          string              `json:"product"`
	Quantity         int                 `json:"quantity"`
	InstallationDate time.Time           `json:"installationDate"`
	ScheduledDate    *time.Time          `json:"scheduledDate,omitempty"`
	InstallerName    string              `json:"installerName,omitempty"`
	Timeline         []TimelineEntryView `json:"timeline"`
}

func NewTrackingView(o *order.Order) TrackingView {
	full := NewOrderView(o)
	v := TrackingView{
		Code:             full.Code,
		Status:           full.Status,
		Product:          full.Product,
		Quantity:         full.Quantity,
		InstallationDate: full.InstallationDate,
		ScheduledDate:    full.ScheduledDate,
		Timeline:         full.Timeline,
	}
	if full.Installer != nil {
		v.InstallerName = full.Installer.Name
	}
	return v
}

type StockRequestView struct {
	ID            string     `json:"id"`
	OrderID       *string    `json:"orderId,omitempty"`
	Product       string     `json:"product"`
	Quantity      int        `json:"quantity"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requestedAt"`
	RequestedBy   string     `json:"requestedBy"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy    string     `json:"resolvedBy,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	PreviousStock *int       `json:"previousStock,omitempty"`
	NewStock      *int       `json:"newStock,omitempty"`
}

func NewStockRequestView(r *stockrequest.StockRequest) StockRequestView {
	v := StockRequestView{
		ID:            r.ID().String(),
		Product:       r.Product(),
		Quantity:      r.Quantity(),
		Message:       r.Message(),
		Status:        r.Status().String(),
		RequestedAt:   r.RequestedAt(),
		RequestedBy:   r.RequestedBy(),
		ResolvedAt:    r.ResolvedAt(),
		ResolvedBy:    r.ResolvedBy(),
		Reason:        r.Reason(),
		PreviousStock: r.PreviousStock(),
		NewStock:      r.NewStock(),
	}
	if id := r.OrderID(); id != nil {
		s := id.String()
		v.OrderID = &s
	}
	return v
}

type InventoryView struct {
	Product       string     `json:"product"`
	Quantity      int        `json:"quantity"`
	LastUpdated   *time.Time `json:"lastUpdated,omitempty"`
	LastUpdatedBy string     `json:"lastUpdatedBy,omitempty"`
}

func NewInventoryView(r inventory.Record) InventoryView {
	v := InventoryView{Product: r.Product(), Quantity: r.Quantity(), LastUpdatedBy: r.LastUpdatedBy()}
	if at := r.LastUpdated(); !at.IsZero() {
		v.LastUpdated = &at
	}
	return v
}

func NewInstallerView(i *installer.Installer) InstallerView {
	return InstallerView{ID: i.ID(), Name: i.Name(), Phone: i.Phone(), Email: i.Email()}
}

type NotificationView struct {
	ID             string    `json:"id"`
	Tag            string    `json:"tag"`
	Category       string    `json:"category"`
	Recipient      string    `json:"recipient"`
	CC             []string  `json:"cc,omitempty"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	OrderID        *string   `json:"orderId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	OpenCount      int       `json:"openCount"`
	DeliveryStatus string    `json:"deliveryStatus"`
	Attempts       int       `json:"attempts"`
	LastError      string    `json:"lastError,omitempty"`
}

func NewNotificationView(i *notification.Intent) NotificationView {
	v := NotificationView{
		ID:             i.ID().String(),
		Tag:            string(i.Tag()),
		Category:       string(i.Category()),
		Recipient:      i.Recipient(),
		CC:             i.CC(),
		Subject:        i.Subject(),
		Body:           i.Body(),
		CreatedAt:      i.CreatedAt(),
		OpenCount:      i.OpenCount(),
		DeliveryStatus: i.DeliveryStatus().String(),
		Attempts:       i.Attempts(),
		LastError:      i.LastError(),
	}
	if id := i.OrderID(); id != nil {
		s := id.String()
		v.OrderID = &s
	}
	return v
}
