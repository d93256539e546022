package notificationrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Append(ctx context.Context, intent *notification.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(intent)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Omit("Seq").Create(&dto).Error; err != nil {
		if _, ok := pgerr.UniqueViolation(err); ok {
			return errs.NewConflictErrorWithCause("notification intent", intent.ID().String(), "intent already logged", err)
		}
		return err
	}
	return nil
}

func (r *GormNotificationRepository) UpdateDelivery(ctx context.Context, intent *notification.Intent) error {
	result := r.db.WithContext(ctx).Model(&IntentDTO{}).
		Where("id = ?", intent.ID().Bytes()).
		Updates(map[string]any{
			"delivery_status": intent.DeliveryStatus().String(),
			"attempts":        intent.Attempts(),
			"last_error":      intent.LastError(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification intent", intent.ID().String())
	}
	return nil
}

// IncrementOpenCount adds one in SQL so concurrent opens are all counted.
func (r *GormNotificationRepository) IncrementOpenCount(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Model(&IntentDTO{}).
		Where("id = ?", id.Bytes()).
		UpdateColumn("open_count", gorm.Expr("open_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification intent", id.String())
	}
	return nil
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Intent, error) {
	var dto IntentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification intent", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormNotificationRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*notification.Intent, error) {
	return r.find(r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()))
}

func (r *GormNotificationRepository) ListUndelivered(ctx context.Context, maxAttempts, limit int) ([]*notification.Intent, error) {
	query := r.db.WithContext(ctx).
		Where("delivery_status = ? AND attempts < ?", notification.DeliveryFailed.String(), maxAttempts)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.find(query)
}

func (r *GormNotificationRepository) find(query *gorm.DB) ([]*notification.Intent, error) {
	var dtos []IntentDTO
	if err := query.Order("seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	intents := make([]*notification.Intent, 0, len(dtos))
	for _, dto := range dtos {
		intent, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		intents = append(intents, intent)
	}
	return intents, nil
}
