package postgres

import (
	"fmt"

	"fulfillment/internal/adapters/out/postgres/installerrepo"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/stockrequestrepo"
	"fulfillment/internal/core/domain/model/stockrequest"

	"gorm.io/gorm"
)

// Tables lists every table Migrate manages, children before parents.
var Tables = []string{
	"order_timeline",
	"orders",
	"stock_requests",
	"inventory_records",
	"installers",
	"notification_intents",
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.TimelineEntryDTO{},
		&stockrequestrepo.StockRequestDTO{},
		&inventoryrepo.InventoryRecordDTO{},
		&installerrepo.InstallerDTO{},
		&notificationrepo.IntentDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	onePending := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON stock_requests (order_id) WHERE status = '%s' AND order_id IS NOT NULL",
		stockrequestrepo.OnePendingPerOrderIndex, stockrequest.Pending.String(),
	)
	if err := db.Exec(onePending).Error; err != nil {
		return fmt.Errorf("create pending stock request index: %w", err)
	}
	return nil
}
