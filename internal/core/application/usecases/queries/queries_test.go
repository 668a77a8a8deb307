package queries_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bytebite/internal/adapters/out/memqueue"
	"bytebite/internal/adapters/out/queuetest"
	"bytebite/internal/adapters/out/tablestore"
	"bytebite/internal/core/application/usecases/queries"
	"bytebite/internal/core/domain/model/delivery"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/core/domain/model/order"
	"bytebite/internal/core/domain/services"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var start = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type QueriesTestSuite struct {
	suite.Suite
	clock   *queuetest.Clock
	store   *tablestore.Store
	queue   *memqueue.Queue
	metrics *metrics.Metrics
	poll    queries.CheckDeliveryQueueQueryHandler
	area    kernel.Area
}

func (s *QueriesTestSuite) SetupTest() {
	s.clock = queuetest.NewClock(start)
	store, err := tablestore.Open(s.T().Context(), tablestore.Config{
		Driver:     tablestore.DriverSQLite,
		SQLitePath: filepath.Join(s.T().TempDir(), "queries.db"),
	}, s.clock)
	s.Require().NoError(err)
	s.store = store
	s.queue = memqueue.New(s.clock, time.Hour)
	s.metrics = metrics.NewNop()
	s.poll = queries.NewCheckDeliveryQueueQueryHandler(s.queue, store.Deliveries(), 30*time.Second, s.metrics, logger.NewNop())
	s.area = kernel.MustNewArea("downtown")
}

func (s *QueriesTestSuite) TearDownTest() {
	_ = s.store.Close()
}

// announce stores a pending delivery and puts its notification on the queue.
func (s *QueriesTestSuite) announce() *delivery.Delivery {
	ctx := s.T().Context()
	customer, err := order.NewCustomer("Ann", "1 Main St", "")
	s.Require().NoError(err)
	line, err := order.NewLine(order.MealRef{DishName: "Pho", RestaurantName: "Pho 88"}, 1, 10, 15)
	s.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), s.area, customer, []order.Line{line}, s.clock.Now())
	s.Require().NoError(err)
	d, err := services.NewOrderDispatcher().Dispatch(o, kernel.NewUUID(), s.clock.Now())
	s.Require().NoError(err)

	s.Require().NoError(s.store.Orders().Add(ctx, o))
	s.Require().NoError(s.store.Deliveries().Add(ctx, d))
	s.send(d)
	return d
}

func (s *QueriesTestSuite) send(d *delivery.Delivery) {
	body, err := delivery.NewNotification(d, s.clock.Now()).Encode()
	s.Require().NoError(err)
	_, err = s.queue.Send(s.T().Context(), d.Area(), body)
	s.Require().NoError(err)
}

func (s *QueriesTestSuite) pollArea(limit int) []queries.DeliveryCandidate {
	q, err := queries.NewCheckDeliveryQueueQuery(s.area.String(), "a@x.io", limit)
	s.Require().NoError(err)
	candidates, err := s.poll.Handle(s.T().Context(), q)
	s.Require().NoError(err)
	return candidates
}

func (s *QueriesTestSuite) TestPollReturnsPendingCandidateWithLease() {
	d := s.announce()

	candidates := s.pollArea(0)

	s.Require().Len(candidates, 1)
	c := candidates[0]
	s.Equal(d.ID().String(), c.DeliveryID)
	s.Equal("pending", c.Status)
	s.Equal("Pho 88", c.RestaurantName)
	s.Equal(45, c.EstimatedMinutes)
	s.NotEmpty(c.MessageID)
	s.NotEmpty(c.PopReceipt)
	s.Equal(int64(1), c.DequeueCount)
}

func (s *QueriesTestSuite) TestPollingNeverChangesTheDelivery() {
	d := s.announce()

	s.pollArea(5)
	s.clock.Advance(31 * time.Second)
	again := s.pollArea(5)

	s.Require().Len(again, 1)
	s.Equal(int64(2), again[0].DequeueCount)
	stored, err := s.store.Deliveries().Get(s.T().Context(), s.area, d.ID())
	s.Require().NoError(err)
	s.Equal(delivery.Pending, stored.Status())
	s.Empty(stored.DriverEmail())
	s.Equal(int64(1), stored.Version())
}

func (s *QueriesTestSuite) TestCorruptDeliveryRowOnlySkipsItsMessage() {
	corrupt := s.announce()
	healthy := s.announce()
	s.Require().NoError(s.store.DB().
		Table("deliveries").
		Where("row_key = ?", corrupt.ID().String()).
		Update("status", "lost").Error)

	candidates := s.pollArea(5)

	s.Require().Len(candidates, 1)
	s.Equal(healthy.ID().String(), candidates[0].DeliveryID)
	s.Equal(2, s.queue.Len(s.area))
	s.Zero(testutil.ToFloat64(s.metrics.StaleMessagesDeletedTotal))

	s.clock.Advance(31 * time.Second)
	s.Len(s.pollArea(5), 1)
}

func (s *QueriesTestSuite) TestLeasedCandidateIsHiddenFromOtherDrivers() {
	s.announce()

	s.Len(s.pollArea(5), 1)
	s.Empty(s.pollArea(5))
}

func (s *QueriesTestSuite) TestClaimedDeliveryIsDroppedFromQueue() {
	ctx := s.T().Context()
	d := s.announce()
	s.Require().NoError(d.Assign("a@x.io", s.clock.Now()))
	s.Require().NoError(s.store.Deliveries().Update(ctx, d))

	s.Empty(s.pollArea(5))
	s.Equal(0, s.queue.Len(s.area))
	s.InDelta(1, testutil.ToFloat64(s.metrics.StaleMessagesDeletedTotal), 0)
}

func (s *QueriesTestSuite) TestUndecodableAndOrphanMessagesAreDropped() {
	ctx := s.T().Context()
	_, err := s.queue.Send(ctx, s.area, []byte("not json"))
	s.Require().NoError(err)
	_, err = s.queue.Send(ctx, s.area, []byte(`{"deliveryId":"`+kernel.NewUUID().String()+`"}`))
	s.Require().NoError(err)

	s.Empty(s.pollArea(5))
	s.Equal(0, s.queue.Len(s.area))
}

func (s *QueriesTestSuite) TestDuplicateAnnouncementIsListedOnce() {
	d := s.announce()
	s.clock.Advance(time.Millisecond)
	s.send(d)

	candidates := s.pollArea(5)

	s.Len(candidates, 1)
	s.Equal(1, s.queue.Len(s.area))
}

func (s *QueriesTestSuite) TestLimitIsHonoured() {
	for range 7 {
		s.announce()
		s.clock.Advance(time.Millisecond)
	}

	s.Len(s.pollArea(0), queries.DefaultPollLimit)
	s.Len(s.pollArea(100), 2)
}

func (s *QueriesTestSuite) TestGetMyDeliveries() {
	ctx := s.T().Context()
	first := s.announce()
	second := s.announce()
	s.announce()
	s.Require().NoError(first.Assign("a@x.io", start.Add(time.Minute)))
	s.Require().NoError(s.store.Deliveries().Update(ctx, first))
	s.Require().NoError(second.Assign("A@x.io", start.Add(2*time.Minute)))
	s.Require().NoError(s.store.Deliveries().Update(ctx, second))

	q, err := queries.NewGetMyDeliveriesQuery("a@x.io")
	s.Require().NoError(err)
	views, err := queries.NewGetMyDeliveriesQueryHandler(s.store.Deliveries()).Handle(ctx, q)
	s.Require().NoError(err)

	s.Require().Len(views, 2)
	s.Equal(second.ID().String(), views[0].DeliveryID)
	s.Equal(first.ID().String(), views[1].DeliveryID)
	s.Equal("assigned", views[0].Status)
}

func (s *QueriesTestSuite) TestGetMealsByArea() {
	ctx := s.T().Context()
	for _, details := range []menu.MealDetails{
		{RestaurantName: "Zen", DishName: "Ramen", Description: "Pork broth", Price: 12, PrepTimeMinutes: 20},
		{RestaurantName: "Pho 88", DishName: "Roll", Description: "Fresh roll", Price: 5, PrepTimeMinutes: 5},
		{RestaurantName: "Pho 88", DishName: "Pho", Description: "Beef soup", Price: 10, PrepTimeMinutes: 15},
	} {
		m, err := menu.NewMeal(kernel.NewUUID(), s.area, details)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Meals().Add(ctx, m))
	}

	q, err := queries.NewGetMealsByAreaQuery("downtown")
	s.Require().NoError(err)
	views, err := queries.NewGetMealsByAreaQueryHandler(s.store.Meals()).Handle(ctx, q)
	s.Require().NoError(err)

	s.Require().Len(views, 3)
	s.Equal([]string{"Pho", "Roll", "Ramen"}, []string{views[0].DishName, views[1].DishName, views[2].DishName})

	empty, err := queries.NewGetMealsByAreaQuery("uptown")
	s.Require().NoError(err)
	none, err := queries.NewGetMealsByAreaQueryHandler(s.store.Meals()).Handle(ctx, empty)
	s.Require().NoError(err)
	s.Empty(none)
}

func TestQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}

func TestNewCheckDeliveryQueueQuery(t *testing.T) {
	q, err := queries.NewCheckDeliveryQueueQuery("downtown", "", 0)
	require.NoError(t, err)
	assert.Equal(t, queries.DefaultPollLimit, q.Limit())

	q, err = queries.NewCheckDeliveryQueueQuery("downtown", "", 1000)
	require.NoError(t, err)
	assert.Equal(t, ports.MaxReceiveBatch, q.Limit())

	_, err = queries.NewCheckDeliveryQueueQuery("downtown", "", -1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewCheckDeliveryQueueQuery("", "", 5)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewGetMyDeliveriesQuery_RequiresEmail(t *testing.T) {
	_, err := queries.NewGetMyDeliveriesQuery("  ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

type failingDeliveries struct {
	ports.DeliveryRepository
}

func (failingDeliveries) Get(context.Context, kernel.Area, kernel.UUID) (*delivery.Delivery, error) {
	return nil, errs.NewPersistenceError("get delivery", errors.New("connection reset"))
}

func TestCheckDeliveryQueueQueryHandler_StoreFailureAbortsPoll(t *testing.T) {
	clock := queuetest.NewClock(start)
	queue := memqueue.New(clock, time.Hour)
	area := kernel.MustNewArea("downtown")
	_, err := queue.Send(t.Context(), area, []byte(`{"deliveryId":"`+kernel.NewUUID().String()+`"}`))
	require.NoError(t, err)

	handler := queries.NewCheckDeliveryQueueQueryHandler(queue, failingDeliveries{}, 0, metrics.NewNop(), logger.NewNop())
	q, err := queries.NewCheckDeliveryQueueQuery("downtown", "", 5)
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), q)

	require.ErrorIs(t, err, errs.ErrPersistence)
	assert.Equal(t, 1, queue.Len(area))
}
