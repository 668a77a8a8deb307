package guard_test

import (
	"errors"
	"sync"
	"testing"

	"bytebite/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("Meal must be created via NewMeal")

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
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuardEmbedded shows the guard inside a domain type built by a constructor.
func TestConstructorGuardEmbedded(t *testing.T) {
	type claimCommand struct {
		driverID string
		guard    guard.ConstructorGuard
	}
	errNotConstructed := errors.New("command must be created via its constructor")

	newCommand := func(driverID string) (claimCommand, error) {
		if driverID == "" {
			return claimCommand{}, errors.New("driverId is required")
		}
		return claimCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
	}

	cmd, err := newCommand("driver-1")
	require.NoError(t, err)
	require.NoError(t, cmd.guard.Validate(errNotConstructed))

	var zero claimCommand
	assert.Equal(t, errNotConstructed, zero.guard.Validate(errNotConstructed))

	_, err = newCommand("")
	require.Error(t, err)
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				assert.NoError(t, g.Validate(validationError))
			}
		}()
	}
	wg.Wait()
}

func BenchmarkConstructorGuard(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
