package inventory_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Increase(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	r := inventory.Empty(" Filter ")
	assert.Equal(t, "Filter", r.Product())
	assert.Zero(t, r.Quantity())

	r, err := r.Increase(10, "hod@example.com", now)
	require.NoError(t, err)
	r, err = r.Increase(4, "admin@example.com", now.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 14, r.Quantity())
	assert.Equal(t, "admin@example.com", r.LastUpdatedBy())
	assert.Equal(t, now.Add(time.Minute), r.LastUpdated())

	_, err = r.Increase(0, "x", now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = r.Increase(-3, "x", now)
	require.ErrorIs(t, err, errs.ErrValidationFailed)
}

func TestRestore(t *testing.T) {
	_, err := inventory.Restore("Filter", -1, time.Time{}, "")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = inventory.Restore("  ", 1, time.Time{}, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	r, err := inventory.Restore("Filter", 3, time.Time{}, "seed")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Quantity())
}
