// Package inventoryrepo persists per-product stock levels. Increments are a
// single upsert so concurrent approvals never lose an update.
package inventoryrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRecordDTO struct {
	Product       string `gorm:"primaryKey"`
	Quantity      int    `gorm:"not null;check:chk_inventory_quantity_non_negative,quantity >= 0"`
	LastUpdated   time.Time
	LastUpdatedBy string
}

func (InventoryRecordDTO) TableName() string {
	return "inventory_records"
}

func toDomain(dto InventoryRecordDTO) (inventory.Record, error) {
	return inventory.Restore(dto.Product, dto.Quantity, dto.LastUpdated.UTC(), dto.LastUpdatedBy)
}

// GormInventoryRepository implements ports.InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Increase inserts the product with quantity delta or adds delta to the
// existing row, returning the quantity after the write.
func (r *GormInventoryRepository) Increase(
	ctx context.Context,
	product string,
	delta int,
	actor string,
	at time.Time,
) (inventory.Change, error) {
	product = inventory.NormalizeProduct(product)
	if product == "" {
		return inventory.Change{}, errs.NewValueIsRequiredError("product name")
	}
	if err := inventory.ValidateDelta(delta); err != nil {
		return inventory.Change{}, err
	}

	dto := InventoryRecordDTO{Product: product, Quantity: delta, LastUpdated: at, LastUpdatedBy: actor}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "product"}},
				DoUpdates: clause.Assignments(map[string]any{
					"quantity":        gorm.Expr("inventory_records.quantity + EXCLUDED.quantity"),
					"last_updated":    gorm.Expr("EXCLUDED.last_updated"),
					"last_updated_by": gorm.Expr("EXCLUDED.last_updated_by"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "quantity"}}},
		).
		Create(&dto).Error
	if err != nil {
		return inventory.Change{}, err
	}

	return inventory.Change{Product: product, Previous: dto.Quantity - delta, Current: dto.Quantity}, nil
}

func (r *GormInventoryRepository) Get(ctx context.Context, product string) (inventory.Record, error) {
	product = inventory.NormalizeProduct(product)

	var dto InventoryRecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "product = ?", product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.Empty(product), nil
		}
		return inventory.Record{}, err
	}
	return toDomain(dto)
}

func (r *GormInventoryRepository) List(ctx context.Context) ([]inventory.Record, error) {
	var dtos []InventoryRecordDTO
	if err := r.db.WithContext(ctx).Order("product").Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]inventory.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
