package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		// When
		err := g.Validate(expected)

		// Then
		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type claimCommand struct {
		uniqueID string
		guard    guard.ConstructorGuard
	}

	errNotConstructed := errors.New("claimCommand must be created via newClaimCommand")

	newClaimCommand := func(uniqueID string) (claimCommand, error) {
		if uniqueID == "" {
			return claimCommand{}, errors.New("unique id is required")
		}
		return claimCommand{uniqueID: uniqueID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_command_validates", func(t *testing.T) {
		cmd, err := newClaimCommand("L1")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errNotConstructed))
		assert.Equal(t, "L1", cmd.uniqueID)
	})

	t.Run("literal_command_fails_validation", func(t *testing.T) {
		cmd := claimCommand{uniqueID: "L1"}

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("copies_keep_guard_state", func(t *testing.T) {
		cmd, _ := newClaimCommand("L1")
		cp := cmd

		require.NoError(t, cp.guard.Validate(errNotConstructed))
	})
}
