// Package notificationrepo persists the notification log. Rows are appended
// once; afterwards only delivery bookkeeping and the open counter change.
package notificationrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IntentDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq            int64     `gorm:"autoIncrement;uniqueIndex"`
	Tag            string    `gorm:"size:32;index"`
	Category       string    `gorm:"size:16"`
	Recipient      string
	CC             datatypes.JSON
	Subject        string
	Body           string
	OrderID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime:false"`
	OpenCount      int        `gorm:"not null;default:0"`
	DeliveryStatus string     `gorm:"size:16;index"`
	Attempts       int
	LastError      string
}

func (IntentDTO) TableName() string {
	return "notification_intents"
}

func fromDomain(intent *notification.Intent) (IntentDTO, error) {
	s := intent.State()
	cc, err := json.Marshal(s.CC)
	if err != nil {
		return IntentDTO{}, err
	}

	dto := IntentDTO{
		ID:             s.ID.Bytes(),
		Tag:            string(s.Tag),
		Category:       string(s.Category),
		Recipient:      s.Recipient,
		CC:             cc,
		Subject:        s.Subject,
		Body:           s.Body,
		CreatedAt:      s.CreatedAt,
		OpenCount:      s.OpenCount,
		DeliveryStatus: s.DeliveryStatus.String(),
		Attempts:       s.Attempts,
		LastError:      s.LastError,
	}
	if s.OrderID != nil {
		raw := s.OrderID.Bytes()
		dto.OrderID = &raw
	}
	return dto, nil
}

func toDomain(dto IntentDTO) (*notification.Intent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := notification.ParseDeliveryStatus(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	var cc []string
	if len(dto.CC) > 0 {
		if err = json.Unmarshal(dto.CC, &cc); err != nil {
			return nil, err
		}
	}

	s := notification.State{
		ID:             id,
		Tag:            notification.Tag(dto.Tag),
		Category:       notification.Category(dto.Category),
		Recipient:      dto.Recipient,
		CC:             cc,
		Subject:        dto.Subject,
		Body:           dto.Body,
		CreatedAt:      dto.CreatedAt.UTC(),
		OpenCount:      dto.OpenCount,
		DeliveryStatus: status,
		Attempts:       dto.Attempts,
		LastError:      dto.LastError,
	}
	if dto.OrderID != nil {
		orderID, orderErr := kernel.UUIDFromBytes(dto.OrderID[:])
		if orderErr != nil {
			return nil, orderErr
		}
		s.OrderID = &orderID
	}
	return notification.Restore(s)
}
