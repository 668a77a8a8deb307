// Package delivery models the dispatch side of an order: the Delivery aggregate a
// driver claims and moves through its lifecycle, and the Notification published
// to the area queue when a delivery becomes available.
//
// Lifecycle:
//
//	Pending ──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//
// Moves are strictly forward and one step at a time. The driver is set exactly
// once, on Assign, and only that driver may advance the delivery afterwards.
package delivery
