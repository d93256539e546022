package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("payload must be created via its constructor")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedInPayload(t *testing.T) {
	type verifyPayload struct {
		note  string
		guard guard.ConstructorGuard
	}
	errPayloadNotConstructed := errors.New("verifyPayload must be created via newVerifyPayload")

	newVerifyPayload := func(note string) verifyPayload {
		return verifyPayload{note: note, guard: guard.NewConstructorGuard()}
	}

	t.Run("constructor_built_payload_is_valid", func(t *testing.T) {
		p := newVerifyPayload("stock checked offline")

		require.NoError(t, p.guard.Validate(errPayloadNotConstructed))
		assert.Equal(t, "stock checked offline", p.note)
	})

	t.Run("literal_payload_is_rejected", func(t *testing.T) {
		p := verifyPayload{note: "forged"}

		require.ErrorIs(t, p.guard.Validate(errPayloadNotConstructed), errPayloadNotConstructed)
	})

	t.Run("copies_keep_the_guard", func(t *testing.T) {
		p := newVerifyPayload("copied")
		copied := p

		require.NoError(t, copied.guard.Validate(errPayloadNotConstructed))
	})
}
