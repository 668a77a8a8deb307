// Package order provides the Order aggregate: what a customer checked out, where
// it goes and what it costs.
//
// The package includes:
//   - Order: the aggregate root, one per checkout, never deleted
//   - Line: one meal of the order with its quantity, unit price and prep time
//   - Customer: who receives the order
//
// An order does not own its lifecycle. Its status and driver mirror the
// delivery created for it and are refreshed on a best-effort basis whenever the
// delivery moves.
package order
