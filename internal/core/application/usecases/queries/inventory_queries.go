package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetInventoryQueryIsNotConstructed = errors.New(
		"GetInventoryQuery must be created via NewGetInventoryQuery constructor",
	)
	ErrListInventoryQueryIsNotConstructed = errors.New(
		"ListInventoryQuery must be created via NewListInventoryQuery constructor",
	)
)

// GetInventoryQuery reads the quantity on hand for one product. Unknown
// products have quantity 0.
type GetInventoryQuery struct {
	product string

	guard guard.ConstructorGuard
}

func NewGetInventoryQuery(product string) (GetInventoryQuery, error) {
	product = inventory.NormalizeProduct(product)
	if product == "" {
		return GetInventoryQuery{}, errs.NewValueIsRequiredError("product name")
	}
	return GetInventoryQuery{product: product, guard: guard.NewConstructorGuard()}, nil
}

func (q GetInventoryQuery) Validate() error {
	return q.guard.Validate(ErrGetInventoryQueryIsNotConstructed)
}

func (q GetInventoryQuery) Product() string { return q.product }

// ListInventoryQuery lists every product with a record, by name.
type ListInventoryQuery struct {
	guard guard.ConstructorGuard
}

func NewListInventoryQuery() ListInventoryQuery {
	return ListInventoryQuery{guard: guard.NewConstructorGuard()}
}

func (q ListInventoryQuery) Validate() error {
	return q.guard.Validate(ErrListInventoryQueryIsNotConstructed)
}

// InventoryQueryHandler serves both inventory queries.
type InventoryQueryHandler struct {
	factory ReadRepositoriesFactory
}

func NewInventoryQueryHandler(factory ReadRepositoriesFactory) InventoryQueryHandler {
	return InventoryQueryHandler{factory: factory}
}

func (h InventoryQueryHandler) Get(ctx context.Context, query GetInventoryQuery) (InventoryView, error) {
	if err := query.Validate(); err != nil {
		return InventoryView{}, err
	}
	record, err := h.factory.Create().InventoryRepository().Get(ctx, query.Product())
	if err != nil {
		return InventoryView{}, err
	}
	return NewInventoryView(record), nil
}

func (h InventoryQueryHandler) List(ctx context.Context, query ListInventoryQuery) ([]InventoryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	records, err := h.factory.Create().InventoryRepository().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]InventoryView, 0, len(records))
	for _, r := range records {
		views = append(views, NewInventoryView(r))
	}
	return views, nil
}
