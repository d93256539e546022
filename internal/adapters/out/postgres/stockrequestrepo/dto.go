// Package stockrequestrepo persists stock requests. At most one pending
// request per order is enforced by a partial unique index created in
// postgres.Migrate.
package stockrequestrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stockrequest"

	"github.com/google/uuid"
)

// OnePendingPerOrderIndex is the partial unique index on pending requests.
const OnePendingPerOrderIndex = "idx_stock_requests_one_pending_per_order"

type StockRequestDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index"`
	Product       string
	Quantity      int
	Message       string
	Status        string `gorm:"size:16;index"`
	RequestedAt   time.Time
	RequestedBy   string
	ResolvedAt    *time.Time
	ResolvedBy    string
	Reason        string
	PreviousStock *int
	NewStock      *int
}

func (StockRequestDTO) TableName() string {
	return "stock_requests"
}

func fromDomain(r *stockrequest.StockRequest) StockRequestDTO {
	s := r.State()
	dto := StockRequestDTO{
		ID:            s.ID.Bytes(),
		Product:       s.Product,
		Quantity:      s.Quantity,
		Message:       s.Message,
		Status:        s.Status.String(),
		RequestedAt:   s.RequestedAt,
		RequestedBy:   s.RequestedBy,
		ResolvedAt:    s.ResolvedAt,
		ResolvedBy:    s.ResolvedBy,
		Reason:        s.Reason,
		PreviousStock: s.PreviousStock,
		NewStock:      s.NewStock,
	}
	if s.OrderID != nil {
		raw := s.OrderID.Bytes()
		dto.OrderID = &raw
	}
	return dto
}

func toDomain(dto StockRequestDTO) (*stockrequest.StockRequest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := stockrequest.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	s := stockrequest.State{
		ID:            id,
		Product:       dto.Product,
		Quantity:      dto.Quantity,
		Message:       dto.Message,
		Status:        status,
		RequestedAt:   dto.RequestedAt.UTC(),
		RequestedBy:   dto.RequestedBy,
		ResolvedBy:    dto.ResolvedBy,
		Reason:        dto.Reason,
		PreviousStock: dto.PreviousStock,
		NewStock:      dto.NewStock,
	}
	if dto.OrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes(dto.OrderID[:])
		if orderErr != nil {
			return nil, orderErr
		}
		s.OrderID = &orderID
	}
	if dto.ResolvedAt != nil {
		resolved := dto.ResolvedAt.UTC()
		s.ResolvedAt = &resolved
	}
	return stockrequest.Restore(s)
}
