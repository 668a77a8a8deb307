package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of api/openapi.yaml.
type ServerInterface interface {
	// (POST /api/SubmitOrder)
	SubmitOrder(ctx echo.Context) error
	// (POST /api/CheckDeliveryQueue)
	CheckDeliveryQueue(ctx echo.Context) error
	// (POST /api/AcceptDeliveryFromQueue)
	AcceptDeliveryFromQueue(ctx echo.Context) error
	// (POST /api/UpdateDeliveryStatus)
	UpdateDeliveryStatus(ctx echo.Context) error
	// (GET /api/GetMyDeliveries)
	GetMyDeliveries(ctx echo.Context, params GetMyDeliveriesParams) error
	// (POST /api/RegisterRestaurant)
	RegisterRestaurant(ctx echo.Context) error
	// (POST /api/RegisterMeal)
	RegisterMeal(ctx echo.Context) error
	// (GET /api/GetMealsByArea)
	GetMealsByArea(ctx echo.Context, params GetMealsByAreaParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) SubmitOrder(ctx echo.Context) error {
	return w.Handler.SubmitOrder(ctx)
}

func (w *ServerInterfaceWrapper) CheckDeliveryQueue(ctx echo.Context) error {
	return w.Handler.CheckDeliveryQueue(ctx)
}

func (w *ServerInterfaceWrapper) AcceptDeliveryFromQueue(ctx echo.Context) error {
	return w.Handler.AcceptDeliveryFromQueue(ctx)
}

func (w *ServerInterfaceWrapper) UpdateDeliveryStatus(ctx echo.Context) error {
	return w.Handler.UpdateDeliveryStatus(ctx)
}

func (w *ServerInterfaceWrapper) GetMyDeliveries(ctx echo.Context) error {
	var params GetMyDeliveriesParams

	err := runtime.BindQueryParameter("form", true, true, "driverEmail", ctx.QueryParams(), &params.DriverEmail)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter driverEmail: "+err.Error())
	}

	return w.Handler.GetMyDeliveries(ctx, params)
}

func (w *ServerInterfaceWrapper) RegisterRestaurant(ctx echo.Context) error {
	return w.Handler.RegisterRestaurant(ctx)
}

func (w *ServerInterfaceWrapper) RegisterMeal(ctx echo.Context) error {
	return w.Handler.RegisterMeal(ctx)
}

func (w *ServerInterfaceWrapper) GetMealsByArea(ctx echo.Context) error {
	var params GetMealsByAreaParams

	err := runtime.BindQueryParameter("form", true, true, "area", ctx.QueryParams(), &params.Area)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter area: "+err.Error())
	}

	return w.Handler.GetMealsByArea(ctx, params)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every operation to router under baseURL.
func RegisterHandlers(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/SubmitOrder", w.SubmitOrder)
	router.POST(baseURL+"/api/CheckDeliveryQueue", w.CheckDeliveryQueue)
	router.POST(baseURL+"/api/AcceptDeliveryFromQueue", w.AcceptDeliveryFromQueue)
	router.POST(baseURL+"/api/UpdateDeliveryStatus", w.UpdateDeliveryStatus)
	router.GET(baseURL+"/api/GetMyDeliveries", w.GetMyDeliveries)
	router.POST(baseURL+"/api/RegisterRestaurant", w.RegisterRestaurant)
	router.POST(baseURL+"/api/RegisterMeal", w.RegisterMeal)
	router.GET(baseURL+"/api/GetMealsByArea", w.GetMealsByArea)
}
