package stockrequestrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stockrequest"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStockRequestRepository implements ports.StockRequestRepository using GORM.
type GormStockRequestRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormStockRequestRepository(db *gorm.DB, tracker aggregateTracker) *GormStockRequestRepository {
	return &GormStockRequestRepository{db: db, tracker: tracker}
}

func (r *GormStockRequestRepository) Add(ctx context.Context, request *stockrequest.StockRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if constraint, ok := pgerr.UniqueViolation(err); ok {
			if constraint == OnePendingPerOrderIndex && request.OrderID() != nil {
				return errs.NewConflictErrorWithCause("stock request", request.OrderID().String(),
					"order already has a pending stock request", err)
			}
			return errs.NewConflictErrorWithCause("stock request", request.ID().String(), "stock request already exists", err)
		}
		return err
	}

	r.tracker.TrackAggregate(request.ID(), request)
	return nil
}

// Update resolves a request if its stored status still matches the loaded one.
func (r *GormStockRequestRepository) Update(ctx context.Context, request *stockrequest.StockRequest) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := fromDomain(request)
	expected := request.LoadedStatus().String()
	result := r.db.WithContext(ctx).Model(&StockRequestDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected).
		Updates(map[string]any{
			"status":         dto.Status,
			"resolved_at":    dto.ResolvedAt,
			"resolved_by":    dto.ResolvedBy,
			"reason":         dto.Reason,
			"previous_stock": dto.PreviousStock,
			"new_stock":      dto.NewStock,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current StockRequestDTO
		err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", dto.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("stock request", request.ID().String())
		}
		if err != nil {
			return err
		}
		return errs.NewStaleWriteError("stock request", request.ID().String(), expected, current.Status)
	}

	r.tracker.TrackAggregate(request.ID(), request)
	return nil
}

func (r *GormStockRequestRepository) Get(ctx context.Context, id kernel.UUID) (*stockrequest.StockRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StockRequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stock request", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormStockRequestRepository) FindPendingByOrder(ctx context.Context, orderID kernel.UUID) (*stockrequest.StockRequest, error) {
	var dto StockRequestDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID.Bytes(), stockrequest.Pending.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pending stock request for order", orderID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormStockRequestRepository) ListPending(ctx context.Context) ([]*stockrequest.StockRequest, error) {
	var dtos []StockRequestDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", stockrequest.Pending.String()).
		Order("requested_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	requests := make([]*stockrequest.StockRequest, 0, len(dtos))
	for _, dto := range dtos {
		request, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}
