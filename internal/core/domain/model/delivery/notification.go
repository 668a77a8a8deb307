package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
)

// Notification is the body of a dispatch queue message. It tells drivers polling
// an area that a delivery is available; the delivery record stays the source of truth.
type Notification struct {
	DeliveryID     string    `json:"deliveryId"`
	OrderID        string    `json:"orderId"`
	DeliveryArea   string    `json:"deliveryArea"`
	RestaurantName string    `json:"restaurantName"`
	CustomerName   string    `json:"customerName"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewNotification builds the notification announcing d.
func NewNotification(d *Delivery, at time.Time) Notification {
	return Notification{
		DeliveryID:     d.ID().String(),
		OrderID:        d.OrderID().String(),
		DeliveryArea:   d.Area().String(),
		RestaurantName: d.RestaurantName(),
		CustomerName:   d.CustomerName(),
		Timestamp:      at.UTC(),
	}
}

func (n Notification) Encode() ([]byte, error) {
	return json.Marshal(n)
}

// DecodeNotification parses a queue message body. Bodies that are not JSON or
// carry no valid delivery id are rejected.
func DecodeNotification(body []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, errs.NewValueIsInvalidErrorWithCause("notification", err)
	}
	if _, err := n.ParsedDeliveryID(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// ParsedDeliveryID returns the delivery id as a UUID.
func (n Notification) ParsedDeliveryID() (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(n.DeliveryID)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("notification deliveryId", err)
	}
	if err = id.Validate(); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("notification deliveryId",
			errors.Join(err, fmt.Errorf("%q", n.DeliveryID)))
	}
	return id, nil
}
