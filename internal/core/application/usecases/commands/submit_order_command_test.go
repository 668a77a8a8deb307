package commands_test

import (
	"testing"

	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitOrderCommand(t *testing.T) {
	meals := []commands.SubmitOrderMeal{
		{DishName: "Pho", RestaurantName: "Pho 88", Price: 10, PrepTimeMinutes: 15, Quantity: 2},
		{DishName: "Roll", RestaurantName: "Pho 88", Price: 5, PrepTimeMinutes: 5},
	}

	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewSubmitOrderCommand(" downtown ", "Ann", "1 Main St", "", meals)
		require.NoError(t, err)
		require.NoError(t, cmd.Validate())

		assert.Equal(t, "downtown", cmd.Area().String())
		assert.Equal(t, "Ann", cmd.Customer().Name())
		require.Len(t, cmd.Lines(), 2)
		assert.Equal(t, 1, cmd.Lines()[1].Quantity())
	})

	t.Run("collects every problem", func(t *testing.T) {
		_, err := commands.NewSubmitOrderCommand("", "", "1 Main St", "", nil)
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "deliveryArea")
		assert.Contains(t, err.Error(), "customerName")
		assert.Contains(t, err.Error(), "meals")
	})

	t.Run("bad meal is reported with its index", func(t *testing.T) {
		bad := append([]commands.SubmitOrderMeal{}, meals...)
		bad[1].Quantity = -1

		_, err := commands.NewSubmitOrderCommand("downtown", "Ann", "1 Main St", "", bad)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "meals[1]")
	})

	t.Run("negative price", func(t *testing.T) {
		bad := append([]commands.SubmitOrderMeal{}, meals...)
		bad[0].Price = -1

		_, err := commands.NewSubmitOrderCommand("downtown", "Ann", "1 Main St", "", bad)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.SubmitOrderCommand
		assert.ErrorIs(t, cmd.Validate(), commands.ErrSubmitOrderCommandIsNotConstructed)
	})
}
