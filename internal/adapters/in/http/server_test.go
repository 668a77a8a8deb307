package http_test

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bytebite/api"
	httpadapter "bytebite/internal/adapters/in/http"
	"bytebite/internal/adapters/out/memqueue"
	"bytebite/internal/adapters/out/queuetest"
	"bytebite/internal/adapters/out/tablestore"
	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/core/application/usecases/queries"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	driverA = "a@drivers.test"
	driverB = "b@drivers.test"
)

type DispatchAPITestSuite struct {
	suite.Suite
	clock *queuetest.Clock
	store *tablestore.Store
	queue *memqueue.Queue
	e     *echo.Echo
}

func TestDispatchAPI(t *testing.T) {
	suite.Run(t, new(DispatchAPITestSuite))
}

func (s *DispatchAPITestSuite) SetupTest() {
	ctx := s.T().Context()
	s.clock = queuetest.NewClock(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	store, err := tablestore.Open(ctx, tablestore.Config{
		Driver:     tablestore.DriverSQLite,
		SQLitePath: filepath.Join(s.T().TempDir(), "api.db"),
	}, s.clock)
	s.Require().NoError(err)
	s.store = store
	s.queue = memqueue.New(s.clock, 24*time.Hour)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := logger.NewNop()

	orders, deliveries := store.Orders(), store.Deliveries()
	notifier := commands.NewDispatchNotifier(s.queue, deliveries, s.clock, m, log)
	server := httpadapter.NewServer(httpadapter.Handlers{
		SubmitOrder:          commands.NewSubmitOrderCommandHandler(orders, deliveries, notifier, s.clock, m, log),
		ClaimDelivery:        commands.NewClaimDeliveryCommandHandler(deliveries, orders, s.queue, s.clock, m, log),
		UpdateDeliveryStatus: commands.NewUpdateDeliveryStatusCommandHandler(deliveries, orders, s.clock, m, log),
		RegisterRestaurant:   commands.NewRegisterRestaurantCommandHandler(store.Restaurants()),
		RegisterMeal:         commands.NewRegisterMealCommandHandler(store.Meals()),
		CheckDeliveryQueue:   queries.NewCheckDeliveryQueueQueryHandler(s.queue, deliveries, 30*time.Second, m, log),
		GetMyDeliveries:      queries.NewGetMyDeliveriesQueryHandler(deliveries),
		GetMealsByArea:       queries.NewGetMealsByAreaQueryHandler(store.Meals()),
	}, queries.DefaultPollLimit, log)

	doc, err := api.Load(ctx)
	s.Require().NoError(err)

	s.e, err = httpadapter.NewRouter(httpadapter.RouterConfig{
		Doc:            doc,
		Server:         server,
		Health:         map[string]httpadapter.Pinger{"store": store, "queue": s.queue},
		Metrics:        m,
		Gatherer:       reg,
		Logger:         log,
		RequestTimeout: 5 * time.Second,
	})
	s.Require().NoError(err)
}

func (s *DispatchAPITestSuite) TearDownTest() {
	_ = s.store.Close()
}

func (s *DispatchAPITestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderOrigin, "https://drivers.bytebite.test")

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *DispatchAPITestSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *DispatchAPITestSuite) submitOrder() httpadapter.SubmitOrderResponse {
	rec := s.do(nethttp.MethodPost, "/api/SubmitOrder", `{
		"customerName": "Ann",
		"customerAddress": "1 Main St",
		"deliveryArea": "downtown",
		"meals": [
			{"dishName": "Pho", "restaurantName": "Pho 88", "price": 10, "prepTime": 15, "quantity": 2},
			{"dishName": "Rolls", "restaurantName": "Pho 88", "price": 5, "prepTime": 5}
		]
	}`)
	s.Require().Equal(nethttp.StatusCreated, rec.Code, rec.Body.String())

	var res httpadapter.SubmitOrderResponse
	s.decode(rec, &res)
	return res
}

func (s *DispatchAPITestSuite) poll(driver string) httpadapter.CheckDeliveryQueueResponse {
	rec := s.do(nethttp.MethodPost, "/api/CheckDeliveryQueue",
		`{"area": "downtown", "driverEmail": "`+driver+`"}`)
	s.Require().Equal(nethttp.StatusOK, rec.Code, rec.Body.String())

	var res httpadapter.CheckDeliveryQueueResponse
	s.decode(rec, &res)
	return res
}

func (s *DispatchAPITestSuite) claim(driver string, c httpadapter.DeliveryCandidate) *httptest.ResponseRecorder {
	body, err := json.Marshal(httpadapter.AcceptDeliveryRequest{
		DeliveryId:  c.DeliveryId,
		DriverEmail: driver,
		Area:        "downtown",
		MessageId:   c.MessageId,
		PopReceipt:  c.PopReceipt,
	})
	s.Require().NoError(err)
	return s.do(nethttp.MethodPost, "/api/AcceptDeliveryFromQueue", string(body))
}

func (s *DispatchAPITestSuite) report(driver, deliveryID, status string) *httptest.ResponseRecorder {
	return s.do(nethttp.MethodPost, "/api/UpdateDeliveryStatus",
		`{"deliveryId": "`+deliveryID+`", "area": "downtown", "status": "`+status+`", "driverEmail": "`+driver+`"}`)
}

func (s *DispatchAPITestSuite) TestSubmitOrderPricesAndAnnounces() {
	res := s.submitOrder()

	s.InDelta(25.0, res.TotalPrice, 1e-9)
	s.Equal(45, res.EstimatedDeliveryTimeMinutes)
	s.NotEmpty(res.OrderId)
	s.Equal(1, s.queue.Len(kernel.MustNewArea("downtown")))
}

func (s *DispatchAPITestSuite) TestEveryResponseAllowsAnyOrigin() {
	rec := s.do(nethttp.MethodGet, "/api/GetMealsByArea?area=downtown", "")
	s.Equal(nethttp.StatusOK, rec.Code)
	s.Equal("*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = s.do(nethttp.MethodPost, "/api/SubmitOrder", `{}`)
	s.Equal(nethttp.StatusBadRequest, rec.Code)
	s.Equal("*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func (s *DispatchAPITestSuite) TestSecondDriverLosesClaimAndNoLongerSeesDelivery() {
	order := s.submitOrder()

	first := s.poll(driverA)
	s.Require().Equal(1, first.Count)
	s.Equal(order.DeliveryId, first.Deliveries[0].DeliveryId)
	s.Equal("pending", first.Deliveries[0].Status)

	// the lease runs out before A decides, so B is offered the same delivery
	s.clock.Advance(31 * time.Second)
	second := s.poll(driverB)
	s.Require().Equal(1, second.Count)
	s.NotEqual(first.Deliveries[0].PopReceipt, second.Deliveries[0].PopReceipt)

	rec := s.claim(driverA, first.Deliveries[0])
	s.Require().Equal(nethttp.StatusOK, rec.Code, rec.Body.String())
	var accepted httpadapter.AcceptDeliveryResponse
	s.decode(rec, &accepted)
	s.Equal("assigned", accepted.Status)
	s.True(s.clock.Now().Equal(accepted.AssignedAt))

	rec = s.claim(driverB, second.Deliveries[0])
	s.Equal(nethttp.StatusConflict, rec.Code, rec.Body.String())

	s.clock.Advance(31 * time.Second)
	s.Equal(0, s.poll(driverB).Count)
	s.Equal(0, s.queue.Len(kernel.MustNewArea("downtown")))
}

func (s *DispatchAPITestSuite) TestPollingDoesNotAssign() {
	order := s.submitOrder()
	s.Require().Equal(1, s.poll(driverA).Count)

	rec := s.do(nethttp.MethodGet, "/api/GetMyDeliveries?driverEmail="+driverA, "")
	s.Require().Equal(nethttp.StatusOK, rec.Code)
	var mine []httpadapter.Delivery
	s.decode(rec, &mine)
	s.Empty(mine)

	s.clock.Advance(31 * time.Second)
	again := s.poll(driverB)
	s.Require().Equal(1, again.Count)
	s.Equal(order.DeliveryId, again.Deliveries[0].DeliveryId)
	s.Equal(int64(2), again.Deliveries[0].DequeueCount)
}

func (s *DispatchAPITestSuite) TestDriverWalksDeliveryToTheDoor() {
	order := s.submitOrder()
	candidates := s.poll(driverA)
	s.Require().Equal(1, candidates.Count)
	s.Require().Equal(nethttp.StatusOK, s.claim(driverA, candidates.Deliveries[0]).Code)

	rec := s.report(driverA, order.DeliveryId, "in_transit")
	s.Equal(nethttp.StatusBadRequest, rec.Code, rec.Body.String())

	rec = s.report(driverB, order.DeliveryId, "picked_up")
	s.Equal(nethttp.StatusForbidden, rec.Code, rec.Body.String())

	for _, status := range []string{"picked_up", "in_transit", "delivered"} {
		s.clock.Advance(time.Minute)
		rec = s.report(driverA, order.DeliveryId, status)
		s.Require().Equal(nethttp.StatusOK, rec.Code, rec.Body.String())

		var res httpadapter.UpdateDeliveryStatusResponse
		s.decode(rec, &res)
		s.Equal(status, res.Status)
	}

	rec = s.report(driverB, order.DeliveryId, "delivered")
	s.Equal(nethttp.StatusForbidden, rec.Code)

	rec = s.do(nethttp.MethodGet, "/api/GetMyDeliveries?driverEmail="+driverA, "")
	s.Require().Equal(nethttp.StatusOK, rec.Code)
	var mine []httpadapter.Delivery
	s.decode(rec, &mine)
	s.Require().Len(mine, 1)
	s.Equal("delivered", mine[0].Status)
	s.NotNil(mine[0].DeliveredAt)
	s.Require().NotNil(mine[0].DriverEmail)
	s.Equal(driverA, *mine[0].DriverEmail)
}

func (s *DispatchAPITestSuite) TestClaimUnknownDeliveryIsNotFound() {
	rec := s.claim(driverA, httpadapter.DeliveryCandidate{
		Delivery:   httpadapter.Delivery{DeliveryId: "0b8f3c2e-5d0c-4c1e-9a59-3f7f1d0b2c11"},
		MessageId:  "m-1",
		PopReceipt: "r-1",
	})
	s.Equal(nethttp.StatusNotFound, rec.Code, rec.Body.String())
}

func (s *DispatchAPITestSuite) TestRequestValidation() {
	cases := map[string]struct {
		method, target, body string
	}{
		"unknown field": {
			nethttp.MethodPost, "/api/RegisterRestaurant",
			`{"restaurantName": "Pho 88", "deliveryArea": "downtown", "isAdmin": true}`,
		},
		"missing meals": {
			nethttp.MethodPost, "/api/SubmitOrder",
			`{"customerName": "Ann", "customerAddress": "1 Main St", "deliveryArea": "downtown"}`,
		},
		"pending is not reportable": {
			nethttp.MethodPost, "/api/UpdateDeliveryStatus",
			`{"deliveryId": "x", "area": "downtown", "status": "pending", "driverEmail": "a@b.c"}`,
		},
		"bad delivery id": {
			nethttp.MethodPost, "/api/UpdateDeliveryStatus",
			`{"deliveryId": "not-a-uuid", "area": "downtown", "status": "picked_up", "driverEmail": "a@b.c"}`,
		},
		"missing driver": {
			nethttp.MethodGet, "/api/GetMyDeliveries", "",
		},
		"negative price": {
			nethttp.MethodPost, "/api/RegisterMeal",
			`{"restaurantName": "Pho 88", "dishName": "Pho", "description": "Soup", "price": -1, "prepTime": 15, "area": "downtown"}`,
		},
		"malformed json": {
			nethttp.MethodPost, "/api/CheckDeliveryQueue", `{"area":`,
		},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			rec := s.do(tc.method, tc.target, tc.body)
			s.Equal(nethttp.StatusBadRequest, rec.Code, rec.Body.String())

			var body httpadapter.Error
			s.decode(rec, &body)
			s.Equal(nethttp.StatusBadRequest, body.Code)
			s.NotEmpty(body.Message)
		})
	}
}

func (s *DispatchAPITestSuite) TestMenuRegistration() {
	rec := s.do(nethttp.MethodPost, "/api/RegisterRestaurant", `{"restaurantName": "Pho 88", "deliveryArea": "downtown"}`)
	s.Require().Equal(nethttp.StatusCreated, rec.Code, rec.Body.String())
	var restaurant httpadapter.RegisterRestaurantResponse
	s.decode(rec, &restaurant)
	s.NotEmpty(restaurant.RestaurantId)

	for _, body := range []string{
		`{"restaurantName": "Taco Town", "dishName": "Taco", "description": "Two tacos", "price": 7.5, "prepTime": 10, "area": "downtown"}`,
		`{"restaurantName": "Pho 88", "dishName": "Pho", "description": "Beef noodle soup", "price": 10, "prepTime": 15, "area": "downtown"}`,
		`{"restaurantName": "Pho 88", "dishName": "Banh mi", "description": "Sandwich", "price": 6, "prepTime": 5, "area": "uptown"}`,
	} {
		rec = s.do(nethttp.MethodPost, "/api/RegisterMeal", body)
		s.Require().Equal(nethttp.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = s.do(nethttp.MethodGet, "/api/GetMealsByArea?area=downtown", "")
	s.Require().Equal(nethttp.StatusOK, rec.Code)
	var meals []httpadapter.Meal
	s.decode(rec, &meals)
	s.Require().Len(meals, 2)
	s.Equal("Pho 88", meals[0].RestaurantName)
	s.Equal("Taco Town", meals[1].RestaurantName)
	s.Equal(15, meals[0].PrepTime)
}

func (s *DispatchAPITestSuite) TestHealthAndMetrics() {
	rec := s.do(nethttp.MethodGet, "/health", "")
	s.Require().Equal(nethttp.StatusOK, rec.Code)
	var health httpadapter.HealthResponse
	s.decode(rec, &health)
	s.Equal("ok", health.Status)
	s.Equal(map[string]string{"store": "up", "queue": "up"}, health.Checks)

	s.submitOrder()
	rec = s.do(nethttp.MethodGet, "/metrics", "")
	s.Require().Equal(nethttp.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `bytebite_http_requests_total{method="POST",route="/api/SubmitOrder",status="201"} 1`)
	s.Contains(rec.Body.String(), "bytebite_orders_submitted_total 1")
}

func (s *DispatchAPITestSuite) TestHealthReportsClosedStore() {
	s.Require().NoError(s.store.Close())

	rec := s.do(nethttp.MethodGet, "/health", "")
	s.Equal(nethttp.StatusServiceUnavailable, rec.Code)
	var health httpadapter.HealthResponse
	s.decode(rec, &health)
	s.Equal("down", health.Checks["store"])
	s.Equal("up", health.Checks["queue"])
}

func (s *DispatchAPITestSuite) TestUnknownRouteUsesErrorBody() {
	rec := s.do(nethttp.MethodGet, "/api/Nope", "")
	s.Equal(nethttp.StatusNotFound, rec.Code)
	var body httpadapter.Error
	s.decode(rec, &body)
	s.Equal(nethttp.StatusNotFound, body.Code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"required", errs.NewValueIsRequiredError("area"), nethttp.StatusBadRequest},
		{"joined validation", errors.Join(errs.NewValueIsRequiredError("a"), errs.NewValueIsInvalidError("b")), nethttp.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("limit", -1, 1, 32), nethttp.StatusBadRequest},
		{"not found", errs.NewObjectNotFoundError("delivery", "x"), nethttp.StatusNotFound},
		{"conflict", errs.NewConflictError("delivery", "x", "already assigned"), nethttp.StatusConflict},
		{"stale version", errs.NewVersionIsInvalidError("delivery"), nethttp.StatusConflict},
		{"forbidden", errs.NewForbiddenError("delivery", "x", "not yours"), nethttp.StatusForbidden},
		{"persistence", errs.NewPersistenceError("get delivery", errors.New("connection reset")), nethttp.StatusInternalServerError},
		{"unknown", errors.New("boom"), nethttp.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpadapter.StatusFor(tc.err))
		})
	}
}
