package services_test

import (
	"testing"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/order"
	"bytebite/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, lines ...order.Line) *order.Order {
	t.Helper()
	customer, err := order.NewCustomer("Ann", "1 Main St", "555-0100")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.MustNewArea("downtown"), customer, lines, now)
	require.NoError(t, err)
	return o
}

func line(t *testing.T, restaurant string, price float64, quantity, prep int) order.Line {
	t.Helper()
	l, err := order.NewLine(order.MealRef{DishName: "dish", RestaurantName: restaurant}, quantity, price, prep)
	require.NoError(t, err)
	return l
}

func TestOrderDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewOrderDispatcher()

	t.Run("should derive price and estimate from the order lines", func(t *testing.T) {
		o := newOrder(t, line(t, "Pho 88", 10, 2, 15), line(t, "Pho 88", 5, 1, 5))
		deliveryID := kernel.NewUUID()

		d, err := dispatcher.Dispatch(o, deliveryID, now)

		require.NoError(t, err)
		assert.True(t, d.ID().IsEqual(deliveryID))
		assert.True(t, d.OrderID().IsEqual(o.ID()))
		assert.InDelta(t, 25.0, d.TotalPrice(), 1e-9)
		assert.Equal(t, 45, d.EstimatedMinutes())
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Empty(t, d.DriverEmail())
		assert.Equal(t, "downtown", d.Area().String())
		assert.Equal(t, "Ann", d.CustomerName())
	})

	t.Run("should take the restaurant of the first line", func(t *testing.T) {
		o := newOrder(t, line(t, "Pho 88", 10, 1, 5), line(t, "Taco Bar", 8, 1, 25))

		d, err := dispatcher.Dispatch(o, kernel.NewUUID(), now)

		require.NoError(t, err)
		assert.Equal(t, "Pho 88", d.RestaurantName())
		assert.Equal(t, 55, d.EstimatedMinutes())
	})

	t.Run("should use the pickup and transit allowance for instant meals", func(t *testing.T) {
		o := newOrder(t, line(t, "Pho 88", 0, 1, 0))

		d, err := dispatcher.Dispatch(o, kernel.NewUUID(), now)

		require.NoError(t, err)
		assert.Equal(t, delivery.PickupMinutes+delivery.TransitMinutes, d.EstimatedMinutes())
	})

	t.Run("should reject a non constructed order", func(t *testing.T) {
		_, err := dispatcher.Dispatch(&order.Order{}, kernel.NewUUID(), now)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})

	t.Run("should reject an order that is no longer pending", func(t *testing.T) {
		o := newOrder(t, line(t, "Pho 88", 10, 1, 5))
		d, err := dispatcher.Dispatch(o, kernel.NewUUID(), now)
		require.NoError(t, err)
		require.NoError(t, d.Assign("a@x.io", now))
		require.NoError(t, o.MirrorDelivery(d))

		_, err = dispatcher.Dispatch(o, kernel.NewUUID(), now)

		require.ErrorIs(t, err, services.ErrOrderIsNotDispatchable)
	})

	t.Run("should reject a nil delivery id", func(t *testing.T) {
		o := newOrder(t, line(t, "Pho 88", 10, 1, 5))

		_, err := dispatcher.Dispatch(o, kernel.UUID{}, now)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}
