package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() order.ReportDraft {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return order.ReportDraft{
		ProductModel: "RO-500",
		StartedAt:    start,
		FinishedAt:   start.Add(90 * time.Minute),
		Site:         order.SiteLocation{Address: "12 MG Road", City: "Pune", Pincode: "411001"},
		Readings:     order.Readings{Voltage: "230V"},
		Feedback:     order.Feedback{Rating: 5, Satisfied: true},
	}
}

func TestNewReport(t *testing.T) {
	completedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("should stamp id and derive duration", func(t *testing.T) {
		r, err := order.NewReport(validDraft(), completedAt)

		require.NoError(t, err)
		assert.Equal(t, "RPT-1772452800000", r.ID)
		assert.Equal(t, 90*time.Minute, r.Duration())
		assert.False(t, r.HasCharges())
	})

	t.Run("should default times to completion", func(t *testing.T) {
		draft := validDraft()
		draft.StartedAt, draft.FinishedAt = time.Time{}, time.Time{}

		r, err := order.NewReport(draft, completedAt)

		require.NoError(t, err)
		assert.Equal(t, completedAt, r.FinishedAt)
		assert.Zero(t, r.Duration())
	})

	t.Run("should require a reason for positive charges", func(t *testing.T) {
		draft := validDraft()
		draft.Charges = order.Charges{Amount: decimal.RequireFromString("450.00")}

		_, err := order.NewReport(draft, completedAt)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		draft.Charges.Reason = "extra piping"
		r, err := order.NewReport(draft, completedAt)
		require.NoError(t, err)
		assert.True(t, r.HasCharges())
	})

	t.Run("should reject negative charges", func(t *testing.T) {
		draft := validDraft()
		draft.Charges = order.Charges{Amount: decimal.NewFromInt(-1), Reason: "refund"}

		_, err := order.NewReport(draft, completedAt)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should keep rating between 1 and 5", func(t *testing.T) {
		for _, rating := range []int{0, 6} {
			draft := validDraft()
			draft.Feedback.Rating = rating

			_, err := order.NewReport(draft, completedAt)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should reject finish before start", func(t *testing.T) {
		draft := validDraft()
		draft.FinishedAt = draft.StartedAt.Add(-time.Minute)

		_, err := order.NewReport(draft, completedAt)
		require.ErrorIs(t, err, errs.ErrValidationFailed)
	})

	t.Run("should require site address", func(t *testing.T) {
		draft := validDraft()
		draft.Site.Address = " "

		_, err := order.NewReport(draft, completedAt)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestCode(t *testing.T) {
	now := time.UnixMilli(1772452800000)

	code := order.GenerateCode(now)

	require.NoError(t, code.Validate())
	assert.Regexp(t, `^ORD-1772452800000-[0-9A-Z]{4}$`, code.String())

	_, err := order.ParseCode("ORD-12-ab")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
