package orderrepo

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row and its timeline in one statement batch.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if constraint, ok := pgerr.UniqueViolation(err); ok {
			switch {
			case strings.Contains(constraint, "idempotency"):
				return errs.NewConflictErrorWithCause(ports.ConflictOnIdempotencyKey, aggregate.IdempotencyKey(),
					"already used by another order", err)
			case strings.Contains(constraint, "code"):
				return errs.NewConflictErrorWithCause(ports.ConflictOnOrderCode, aggregate.Code().String(),
					"already taken", err)
			}
			return errs.NewConflictErrorWithCause("order", aggregate.ID().String(), "order already exists", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is a compare-and-set on the status column. Only the stage payload
// and updated_at change; new timeline entries are appended afterwards.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	expected := aggregate.LoadedStatus().String()

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected).
		Updates(map[string]any{
			"status":             dto.Status,
			"stock_request_id":   dto.StockRequestID,
			"rejected_by_role":   dto.RejectedByRole,
			"rejection_reason":   dto.RejectionReason,
			"installer_id":       dto.Installer.ID,
			"installer_name":     dto.Installer.Name,
			"installer_phone":    dto.Installer.Phone,
			"installer_email":    dto.Installer.Email,
			"scheduled_date":     dto.ScheduledDate,
			"dispatch_notes":     dto.DispatchNotes,
			"report":             dto.Report,
			"dispatch_note":      dto.DispatchNote,
			"escalation_message": dto.EscalationMessage,
			"updated_at":         dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.staleOrMissing(ctx, aggregate.ID(), expected)
	}

	if entries := timelineFromDomain(dto.ID, aggregate.NewTimelineEntries()); len(entries) > 0 {
		if err = r.db.WithContext(ctx).Create(&entries).Error; err != nil {
			if _, ok := pgerr.UniqueViolation(err); ok {
				return errs.NewStaleWriteError("order", aggregate.ID().String(), expected, "timeline already advanced")
			}
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) staleOrMissing(ctx context.Context, id kernel.UUID, expected string) error {
	var current OrderDTO
	err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return err
	}
	return errs.NewStaleWriteError("order", id.String(), expected, current.Status)
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order", id.String(), "id = ?", id.Bytes())
}

func (r *GormOrderRepository) GetByCode(ctx context.Context, code order.Code) (*order.Order, error) {
	return r.first(ctx, "order code", code.String(), "code = ?", strings.ToUpper(code.String()))
}

func (r *GormOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	if key == "" {
		return nil, errs.NewObjectNotFoundError("idempotency key", key)
	}
	return r.first(ctx, "idempotency key", key, "idempotency_key = ?", key)
}

func (r *GormOrderRepository) first(ctx context.Context, param, id string, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	err := r.withTimeline(ctx).Where(query, args...).First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}

// List returns orders newest first. From is inclusive, To exclusive.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := r.withTimeline(ctx)
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dtos []OrderDTO
	if err := query.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) withTimeline(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Timeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	})
}
