package http

import "time"

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OrderMeal struct {
	MealId         *string `json:"mealId,omitempty"`
	DishName       string  `json:"dishName"`
	RestaurantName string  `json:"restaurantName"`
	Price          float64 `json:"price"`
	PrepTime       int     `json:"prepTime"`
	Quantity       *int    `json:"quantity,omitempty"`
}

type SubmitOrderRequest struct {
	CustomerName    string      `json:"customerName"`
	CustomerAddress string      `json:"customerAddress"`
	CustomerPhone   *string     `json:"customerPhone,omitempty"`
	DeliveryArea    string      `json:"deliveryArea"`
	Meals           []OrderMeal `json:"meals"`
}

type SubmitOrderResponse struct {
	OrderId                      string  `json:"orderId"`
	DeliveryId                   string  `json:"deliveryId"`
	TotalPrice                   float64 `json:"totalPrice"`
	EstimatedDeliveryTimeMinutes int     `json:"estimatedDeliveryTimeMinutes"`
}

type CheckDeliveryQueueRequest struct {
	Area        string  `json:"area"`
	DriverEmail *string `json:"driverEmail,omitempty"`
	Limit       *int    `json:"limit,omitempty"`
}

type Delivery struct {
	DeliveryId                   string     `json:"deliveryId"`
	OrderId                      string     `json:"orderId"`
	DeliveryArea                 string     `json:"deliveryArea"`
	CustomerName                 string     `json:"customerName"`
	CustomerAddress              string     `json:"customerAddress"`
	RestaurantName               string     `json:"restaurantName"`
	TotalPrice                   float64    `json:"totalPrice"`
	EstimatedDeliveryTimeMinutes int        `json:"estimatedDeliveryTimeMinutes"`
	Status                       string     `json:"status"`
	DriverEmail                  *string    `json:"driverEmail,omitempty"`
	CreatedAt                    time.Time  `json:"createdAt"`
	AssignedAt                   *time.Time `json:"assignedAt,omitempty"`
	PickedUpAt                   *time.Time `json:"pickedUpAt,omitempty"`
	InTransitAt                  *time.Time `json:"inTransitAt,omitempty"`
	DeliveredAt                  *time.Time `json:"deliveredAt,omitempty"`
}

type DeliveryCandidate struct {
	Delivery
	MessageId    string `json:"messageId"`
	PopReceipt   string `json:"popReceipt"`
	DequeueCount int64  `json:"dequeueCount"`
}

type CheckDeliveryQueueResponse struct {
	Deliveries []DeliveryCandidate `json:"deliveries"`
	Count      int                 `json:"count"`
}

type AcceptDeliveryRequest struct {
	DeliveryId  string `json:"deliveryId"`
	DriverEmail string `json:"driverEmail"`
	Area        string `json:"area"`
	MessageId   string `json:"messageId"`
	PopReceipt  string `json:"popReceipt"`
}

type AcceptDeliveryResponse struct {
	DeliveryId  string    `json:"deliveryId"`
	Status      string    `json:"status"`
	DriverEmail string    `json:"driverEmail"`
	AssignedAt  time.Time `json:"assignedAt"`
}

type UpdateDeliveryStatusRequest struct {
	DeliveryId  string `json:"deliveryId"`
	Area        string `json:"area"`
	Status      string `json:"status"`
	DriverEmail string `json:"driverEmail"`
}

type UpdateDeliveryStatusResponse struct {
	DeliveryId string    `json:"deliveryId"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RegisterRestaurantRequest struct {
	RestaurantName string `json:"restaurantName"`
	DeliveryArea   string `json:"deliveryArea"`
}

type RegisterRestaurantResponse struct {
	RestaurantId string `json:"restaurantId"`
}

type RegisterMealRequest struct {
	RestaurantName string  `json:"restaurantName"`
	DishName       string  `json:"dishName"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	PrepTime       int     `json:"prepTime"`
	Area           string  `json:"area"`
}

type RegisterMealResponse struct {
	MealId string `json:"mealId"`
}

type Meal struct {
	MealId         string  `json:"mealId"`
	DeliveryArea   string  `json:"deliveryArea"`
	RestaurantName string  `json:"restaurantName"`
	DishName       string  `json:"dishName"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	PrepTime       int     `json:"prepTime"`
}

type GetMyDeliveriesParams struct {
	DriverEmail string `form:"driverEmail" json:"driverEmail"`
}

type GetMealsByAreaParams struct {
	Area string `form:"area" json:"area"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
