// Package orderrepo persists order aggregates and their timelines. The order
// row carries the flattened stage payload; timeline entries live in their own
// append-only table keyed by (order_id, seq).
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO is the orders table.
type OrderDTO struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Code             string      `gorm:"size:32;uniqueIndex"`
	Customer         CustomerDTO `gorm:"embedded;embeddedPrefix:customer_"`
	Product          string      `gorm:"index"`
	Quantity         int
	InstallationDate time.Time
	Instructions     string
	IdempotencyKey   *string `gorm:"uniqueIndex:idx_orders_idempotency_key"`

	Status            string     `gorm:"size:16;index"`
	StockRequestID    *uuid.UUID `gorm:"type:uuid"`
	RejectedByRole    string     `gorm:"size:16"`
	RejectionReason   string
	Installer         InstallerDTO `gorm:"embedded;embeddedPrefix:installer_"`
	ScheduledDate     *time.Time
	DispatchNotes     string
	Report            datatypes.JSON
	DispatchNote      *string
	EscalationMessage *string

	Timeline  []TimelineEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"autoCreateTime:false;index"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type CustomerDTO struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// InstallerDTO is the dispatch-time installer snapshot. An empty ID means the
// order has not been dispatched.
type InstallerDTO struct {
	ID    string `gorm:"size:64;index"`
	Name  string
	Phone string
	Email string
}

// TimelineEntryDTO is one row of the order_timeline table.
type TimelineEntryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey;autoIncrement:false"`
	Status    string    `gorm:"size:16"`
	At        time.Time
	ActorRole string `gorm:"size:16"`
	ActorID   string
	Note      string
}

func (TimelineEntryDTO) TableName() string {
	return "order_timeline"
}

func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	s := aggregate.State()
	dto := OrderDTO{
		ID:   s.ID.Bytes(),
		Code: s.Code.String(),
		Customer: CustomerDTO{
			Name:    s.Customer.Name(),
			Email:   s.Customer.Email(),
			Phone:   s.Customer.Phone(),
			Address: s.Customer.Address(),
		},
		Product:           s.Product,
		Quantity:          s.Quantity,
		InstallationDate:  s.InstallationDate,
		Instructions:      s.Instructions,
		Status:            s.Status.String(),
		RejectedByRole:    string(s.RejectedByRole),
		RejectionReason:   s.RejectionReason,
		ScheduledDate:     s.ScheduledDate,
		DispatchNotes:     s.DispatchNotes,
		DispatchNote:      s.DispatchNote,
		EscalationMessage: s.EscalationMessage,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.IdempotencyKey != "" {
		key := s.IdempotencyKey
		dto.IdempotencyKey = &key
	}
	if s.StockRequestID != nil {
		raw := s.StockRequestID.Bytes()
		dto.StockRequestID = &raw
	}
	if s.Installer != nil {
		dto.Installer = InstallerDTO(*s.Installer)
	}
	if s.Report != nil {
		raw, err := json.Marshal(s.Report)
		if err != nil {
			return OrderDTO{}, err
		}
		dto.Report = raw
	}
	dto.Timeline = timelineFromDomain(dto.ID, s.Timeline)
	return dto, nil
}

func timelineFromDomain(orderID uuid.UUID, entries []order.TimelineEntry) []TimelineEntryDTO {
	out := make([]TimelineEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, TimelineEntryDTO{
			OrderID:   orderID,
			Seq:       e.Seq,
			Status:    e.Status.String(),
			At:        e.At,
			ActorRole: string(e.ActorRole),
			ActorID:   e.ActorID,
			Note:      e.Note,
		})
	}
	return out
}

// toDomain rebuilds the aggregate through order.Restore, which re-checks the
// stage payload against the stored status.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	customer, err := kernel.NewContact(dto.Customer.Name, dto.Customer.Email, dto.Customer.Phone, dto.Customer.Address)
	if err != nil {
		return nil, err
	}

	s := order.State{
		ID:                id,
		Code:              order.Code(dto.Code),
		Customer:          customer,
		Product:           dto.Product,
		Quantity:          dto.Quantity,
		InstallationDate:  dto.InstallationDate.UTC(),
		Instructions:      dto.Instructions,
		Status:            status,
		RejectedByRole:    kernel.Role(dto.RejectedByRole),
		RejectionReason:   dto.RejectionReason,
		DispatchNotes:     dto.DispatchNotes,
		DispatchNote:      dto.DispatchNote,
		EscalationMessage: dto.EscalationMessage,
		CreatedAt:         dto.CreatedAt.UTC(),
		UpdatedAt:         dto.UpdatedAt.UTC(),
	}
	if dto.IdempotencyKey != nil {
		s.IdempotencyKey = *dto.IdempotencyKey
	}
	if dto.StockRequestID != nil {
		requestID, requestErr := kernel.UUIDFromBytes(dto.StockRequestID[:])
		if requestErr != nil {
			return nil, requestErr
		}
		s.StockRequestID = &requestID
	}
	if dto.Installer.ID != "" {
		snapshot := order.InstallerSnapshot(dto.Installer)
		s.Installer = &snapshot
	}
	if dto.ScheduledDate != nil {
		scheduled := dto.ScheduledDate.UTC()
		s.ScheduledDate = &scheduled
	}
	if len(dto.Report) > 0 {
		var report order.Report
		if err = json.Unmarshal(dto.Report, &report); err != nil {
			return nil, err
		}
		s.Report = &report
	}

	s.Timeline = make([]order.TimelineEntry, 0, len(dto.Timeline))
	for _, e := range dto.Timeline {
		entryStatus, statusErr := order.ParseStatus(e.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		s.Timeline = append(s.Timeline, order.TimelineEntry{
			Seq:       e.Seq,
			Status:    entryStatus,
			At:        e.At.UTC(),
			ActorRole: kernel.Role(e.ActorRole),
			ActorID:   e.ActorID,
			Note:      e.Note,
		})
	}

	return order.Restore(s)
}
