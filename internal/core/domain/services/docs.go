// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - OrderDispatcher: derives the Delivery a driver will claim from a newly
//     submitted Order (restaurant, price, time estimate)
package services
