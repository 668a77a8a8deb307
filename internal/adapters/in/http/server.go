package http

import (
	"net/http"

	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/core/application/usecases/queries"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

var _ ServerInterface = (*Server)(nil)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	// Command handlers
	submitOrderHandler          commands.SubmitOrderCommandHandler
	claimDeliveryHandler        commands.ClaimDeliveryCommandHandler
	updateDeliveryStatusHandler commands.UpdateDeliveryStatusCommandHandler
	registerRestaurantHandler   commands.RegisterRestaurantCommandHandler
	registerMealHandler         commands.RegisterMealCommandHandler

	// Query handlers
	checkDeliveryQueueHandler queries.CheckDeliveryQueueQueryHandler
	getMyDeliveriesHandler    queries.GetMyDeliveriesQueryHandler
	getMealsByAreaHandler     queries.GetMealsByAreaQueryHandler

	pollLimit int
	log       logger.ILogger
}

// Handlers groups what NewServer needs.
type Handlers struct {
	SubmitOrder          commands.SubmitOrderCommandHandler
	ClaimDelivery        commands.ClaimDeliveryCommandHandler
	UpdateDeliveryStatus commands.UpdateDeliveryStatusCommandHandler
	RegisterRestaurant   commands.RegisterRestaurantCommandHandler
	RegisterMeal         commands.RegisterMealCommandHandler

	CheckDeliveryQueue queries.CheckDeliveryQueueQueryHandler
	GetMyDeliveries    queries.GetMyDeliveriesQueryHandler
	GetMealsByArea     queries.GetMealsByAreaQueryHandler
}

// NewServer builds the server. pollLimit is the candidate count of a poll
// that does not ask for one.
func NewServer(h Handlers, pollLimit int, log logger.ILogger) *Server {
	return &Server{
		submitOrderHandler:          h.SubmitOrder,
		claimDeliveryHandler:        h.ClaimDelivery,
		updateDeliveryStatusHandler: h.UpdateDeliveryStatus,
		registerRestaurantHandler:   h.RegisterRestaurant,
		registerMealHandler:         h.RegisterMeal,
		checkDeliveryQueueHandler:   h.CheckDeliveryQueue,
		getMyDeliveriesHandler:      h.GetMyDeliveries,
		getMealsByAreaHandler:       h.GetMealsByArea,
		pollLimit:                   pollLimit,
		log:                         log.With(logger.String("component", "http")),
	}
}

// SubmitOrder handles POST /api/SubmitOrder.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var req SubmitOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestBody(ctx)
	}

	meals := make([]commands.SubmitOrderMeal, len(req.Meals))
	for i, m := range req.Meals {
		meal := commands.SubmitOrderMeal{
			DishName:        m.DishName,
			RestaurantName:  m.RestaurantName,
			Price:           m.Price,
			PrepTimeMinutes: m.PrepTime,
			Quantity:        deref(m.Quantity),
		}
		if m.MealId != nil && *m.MealId != "" {
			id, err := kernel.UUIDFromString(*m.MealId)
			if err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: "Invalid mealId: " + *m.MealId,
				})
			}
			meal.MealID = &id
		}
		meals[i] = meal
	}

	cmd, err := commands.NewSubmitOrderCommand(
		req.DeliveryArea, req.CustomerName, req.CustomerAddress, deref(req.CustomerPhone), meals,
	)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, SubmitOrderResponse{
		OrderId:                      res.OrderID.String(),
		DeliveryId:                   res.DeliveryID.String(),
		TotalPrice:                   res.TotalPrice,
		EstimatedDeliveryTimeMinutes: res.EstimatedMinutes,
	})
}

// CheckDeliveryQueue handles POST /api/CheckDeliveryQueue.
func (s *Server) CheckDeliveryQueue(ctx echo.Context) error {
	var req CheckDeliveryQueueRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestBody(ctx)
	}

	limit := s.pollLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	query, err := queries.NewCheckDeliveryQueueQuery(req.Area, deref(req.DriverEmail), limit)
	if err != nil {
		return s.writeError(ctx, err)
	}

	candidates, err := s.checkDeliveryQueueHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := CheckDeliveryQueueResponse{
		Deliveries: make([]DeliveryCandidate, len(candidates)),
		Count:      len(candidates),
	}
	for i, c := range candidates {
		response.Deliveries[i] = DeliveryCandidate{
			Delivery:     toDelivery(c.DeliveryView),
			MessageId:    c.MessageID,
			PopReceipt:   c.PopReceipt,
			DequeueCount: c.DequeueCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AcceptDeliveryFromQueue handles POST /api/AcceptDeliveryFromQueue.
func (s *Server) AcceptDeliveryFromQueue(ctx echo.Context) error {
	var req AcceptDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestBody(ctx)
	}

	cmd, err := commands.NewClaimDeliveryCommand(req.Area, req.DeliveryId, req.DriverEmail, req.MessageId, req.PopReceipt)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.claimDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AcceptDeliveryResponse{
		DeliveryId:  cmd.DeliveryID().String(),
		Status:      "assigned",
		DriverEmail: cmd.DriverEmail(),
		AssignedAt:  res.AssignedAt,
	})
}

// UpdateDeliveryStatus handles POST /api/UpdateDeliveryStatus.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context) error {
	var req UpdateDeliveryStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestBody(ctx)
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(req.Area, req.DeliveryId, req.DriverEmail, req.Status)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.updateDeliveryStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, UpdateDeliveryStatusResponse{
		DeliveryId: cmd.DeliveryID().String(),
		Status:     res.Status.String(),
		UpdatedAt:  res.At,
	})
}

// GetMyDeliveries handles GET /api/GetMyDeliveries.
func (s *Server) GetMyDeliveries(ctx echo.Context, params GetMyDeliveriesParams) error {
	query, err := queries.NewGetMyDeliveriesQuery(params.DriverEmail)
	if err != nil {
		return s.writeError(ctx, err)
	}

	views, err := s.getMyDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]Delivery, len(views))
	for i, v := range views {
		response[i] = toDelivery(v)
	}
	return ctx.JSON(http.StatusOK, response)
}

// RegisterRestaurant handles POST /api/RegisterRestaurant.
func (s *Server) RegisterRestaurant(ctx echo.Context) error {
	var req RegisterRestaurantRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestBody(ctx)
	}

	cmd, err := commands.NewRegisterRestaurantCommand(req.RestaurantName, req.DeliveryArea)
	if err != nil {
		return s.writeError(ctx, err)
	}

	id, err := s.registerRestaurantHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RegisterRestaurantResponse{RestaurantId: id.String()})
}

// RegisterMeal handles POST /api/RegisterMeal.
func (s *Server) RegisterMeal(ctx echo.Context) error {
	var req RegisterMealRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequestBody(ctx)
	}

	cmd, err := commands.NewRegisterMealCommand(req.Area, menu.MealDetails{
		RestaurantName:  req.RestaurantName,
		DishName:        req.DishName,
		Description:     req.Description,
		Price:           req.Price,
		PrepTimeMinutes: req.PrepTime,
	})
	if err != nil {
		return s.writeError(ctx, err)
	}

	id, err := s.registerMealHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RegisterMealResponse{MealId: id.String()})
}

// GetMealsByArea handles GET /api/GetMealsByArea.
func (s *Server) GetMealsByArea(ctx echo.Context, params GetMealsByAreaParams) error {
	query, err := queries.NewGetMealsByAreaQuery(params.Area)
	if err != nil {
		return s.writeError(ctx, err)
	}

	meals, err := s.getMealsByAreaHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]Meal, len(meals))
	for i, m := range meals {
		response[i] = Meal{
			MealId:         m.MealID,
			DeliveryArea:   m.Area,
			RestaurantName: m.RestaurantName,
			DishName:       m.DishName,
			Description:    m.Description,
			Price:          m.Price,
			PrepTime:       m.PrepTimeMinutes,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

func toDelivery(v queries.DeliveryView) Delivery {
	d := Delivery{
		DeliveryId:                   v.DeliveryID,
		OrderId:                      v.OrderID,
		DeliveryArea:                 v.Area,
		CustomerName:                 v.CustomerName,
		CustomerAddress:              v.CustomerAddress,
		RestaurantName:               v.RestaurantName,
		TotalPrice:                   v.TotalPrice,
		EstimatedDeliveryTimeMinutes: v.EstimatedMinutes,
		Status:                       v.Status,
		CreatedAt:                    v.CreatedAt,
		AssignedAt:                   v.AssignedAt,
		PickedUpAt:                   v.PickedUpAt,
		InTransitAt:                  v.InTransitAt,
		DeliveredAt:                  v.DeliveredAt,
	}
	if v.DriverEmail != "" {
		email := v.DriverEmail
		d.DriverEmail = &email
	}
	return d
}

func badRequestBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
