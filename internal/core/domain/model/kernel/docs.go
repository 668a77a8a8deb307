// Package kernel provides the shared primitives of the ByteBite domain model.
//
// The package includes:
//   - UUID: identifier value object for orders, deliveries, restaurants and meals
//   - Area: the delivery area, which is also the partition key of every entity
//     and the name of the dispatch queue drivers poll
//
// Both are immutable value objects; the zero value is invalid and fails Validate.
package kernel
