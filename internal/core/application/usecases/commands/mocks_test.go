package commands_test

import (
	"context"
	"testing"
	"time"

	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/core/domain/model/order"
	"bytebite/internal/core/domain/services"
	"bytebite/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, area kernel.Area, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, area, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

// MockDeliveryRepository.Get returns a fresh aggregate on every call when the
// expectation returns a delivery.Snapshot, since handlers mutate what they load.
type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, area kernel.Area, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, area, id)
	if s, ok := args.Get(0).(delivery.Snapshot); ok {
		d, err := delivery.RestoreDelivery(s)
		if err != nil {
			panic(err)
		}
		return d, args.Error(1)
	}
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) ListByDriver(ctx context.Context, driverEmail string) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, driverEmail)
	ds, _ := args.Get(0).([]*delivery.Delivery)
	return ds, args.Error(1)
}

func (m *MockDeliveryRepository) ListPendingNotNotifiedSince(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, cutoff, limit)
	ds, _ := args.Get(0).([]*delivery.Delivery)
	return ds, args.Error(1)
}

type MockDispatchQueue struct{ mock.Mock }

func (m *MockDispatchQueue) Send(ctx context.Context, area kernel.Area, body []byte) (string, error) {
	args := m.Called(ctx, area, body)
	return args.String(0), args.Error(1)
}

func (m *MockDispatchQueue) Receive(
	ctx context.Context,
	area kernel.Area,
	maxMessages int,
	visibility time.Duration,
) ([]ports.QueueMessage, error) {
	args := m.Called(ctx, area, maxMessages, visibility)
	msgs, _ := args.Get(0).([]ports.QueueMessage)
	return msgs, args.Error(1)
}

func (m *MockDispatchQueue) Delete(ctx context.Context, area kernel.Area, lease ports.Lease) error {
	return m.Called(ctx, area, lease).Error(0)
}

func (m *MockDispatchQueue) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Add(ctx context.Context, r *menu.Restaurant) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRestaurantRepository) FindByName(ctx context.Context, area kernel.Area, name string) (*menu.Restaurant, error) {
	args := m.Called(ctx, area, name)
	r, _ := args.Get(0).(*menu.Restaurant)
	return r, args.Error(1)
}

type MockMealRepository struct{ mock.Mock }

func (m *MockMealRepository) Add(ctx context.Context, meal *menu.Meal) error {
	return m.Called(ctx, meal).Error(0)
}

func (m *MockMealRepository) ListByArea(ctx context.Context, area kernel.Area) ([]*menu.Meal, error) {
	args := m.Called(ctx, area)
	meals, _ := args.Get(0).([]*menu.Meal)
	return meals, args.Error(1)
}

// newStoredPair returns an order and its pending delivery as the store holds
// them right after submission (version 1).
func newStoredPair(t *testing.T) (*order.Order, *delivery.Delivery) {
	t.Helper()
	customer, err := order.NewCustomer("Ann", "1 Main St", "")
	require.NoError(t, err)
	line, err := order.NewLine(order.MealRef{DishName: "Pho", RestaurantName: "Pho 88"}, 2, 10, 15)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.MustNewArea("downtown"), customer, []order.Line{line}, now)
	require.NoError(t, err)
	d, err := services.NewOrderDispatcher().Dispatch(o, kernel.NewUUID(), now)
	require.NoError(t, err)

	o.SetVersion(1)
	d.SetVersion(1)
	return o, d
}

func snapshotWith(d *delivery.Delivery, change func(s *delivery.Snapshot)) delivery.Snapshot {
	s := d.Snapshot()
	if change != nil {
		change(&s)
	}
	return s
}
