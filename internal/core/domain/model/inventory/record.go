// Package inventory models the per-product on-hand quantity. Records are
// created lazily on the first increment and only ever grow.
package inventory

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

// Record is the on-hand quantity of one product.
type Record struct {
	product       string
	quantity      int
	lastUpdated   time.Time
	lastUpdatedBy string
}

// Empty returns the zero-quantity record used for products never seen before.
func Empty(product string) Record {
	return Record{product: NormalizeProduct(product)}
}

// Restore rebuilds a record read from storage.
func Restore(product string, quantity int, lastUpdated time.Time, lastUpdatedBy string) (Record, error) {
	product = NormalizeProduct(product)
	if product == "" {
		return Record{}, errs.NewValueIsRequiredError("product name")
	}
	if quantity < 0 {
		return Record{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", quantity))
	}
	return Record{product: product, quantity: quantity, lastUpdated: lastUpdated, lastUpdatedBy: lastUpdatedBy}, nil
}

// NormalizeProduct is the key form of a product name.
func NormalizeProduct(product string) string {
	return strings.TrimSpace(product)
}

func (r Record) Product() string        { return r.product }
func (r Record) Quantity() int          { return r.quantity }
func (r Record) LastUpdated() time.Time { return r.lastUpdated }
func (r Record) LastUpdatedBy() string  { return r.lastUpdatedBy }

// Increase returns the record grown by delta. delta must be positive.
func (r Record) Increase(delta int, actor string, now time.Time) (Record, error) {
	if err := ValidateDelta(delta); err != nil {
		return Record{}, err
	}
	if r.product == "" {
		return Record{}, errs.NewValueIsRequiredError("product name")
	}
	r.quantity += delta
	r.lastUpdated = now
	r.lastUpdatedBy = actor
	return r, nil
}

func ValidateDelta(delta int) error {
	if delta < 1 {
		return errs.NewValueIsInvalidErrorWithCause("delta", fmt.Errorf("%d is not greater than 0", delta))
	}
	return nil
}

// Change is the outcome of an increment.
type Change struct {
	Product  string
	Previous int
	Current  int
}
