package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
)

type inventoryRepository struct {
	uow *UnitOfWork
}

// Increase is atomic because every write holds the transaction lock.
func (r *inventoryRepository) Increase(_ context.Context, product string, delta int, actor string, at time.Time) (inventory.Change, error) {
	product = inventory.NormalizeProduct(product)
	var change inventory.Change
	err := r.uow.write(func(t *tables) error {
		current, ok := t.inventory[product]
		if !ok {
			current = inventory.Empty(product)
		}
		next, err := current.Increase(delta, actor, at)
		if err != nil {
			return err
		}
		t.inventory[product] = next
		change = inventory.Change{Product: product, Previous: current.Quantity(), Current: next.Quantity()}
		return nil
	})
	return change, err
}

func (r *inventoryRepository) Get(_ context.Context, product string) (inventory.Record, error) {
	product = inventory.NormalizeProduct(product)
	record := inventory.Empty(product)
	_ = r.uow.read(func(t *tables) error {
		if stored, ok := t.inventory[product]; ok {
			record = stored
		}
		return nil
	})
	return record, nil
}

func (r *inventoryRepository) List(_ context.Context) ([]inventory.Record, error) {
	var records []inventory.Record
	_ = r.uow.read(func(t *tables) error {
		for _, rec := range t.inventory {
			records = append(records, rec)
		}
		return nil
	})
	slices.SortFunc(records, func(a, b inventory.Record) int {
		return strings.Compare(a.Product(), b.Product())
	})
	return records, nil
}
