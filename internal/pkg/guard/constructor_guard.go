// Package guard holds ConstructorGuard, a marker that lets value objects,
// aggregates and commands tell a constructor-built value from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created through their
// New... function. The zero value reports "not constructed".
//
// Example usage:
//
//	var ErrClaimNotConstructed = errors.New("ClaimDeliveryCommand must be created via NewClaimDeliveryCommand")
//
//	type ClaimDeliveryCommand struct {
//	    deliveryID kernel.UUID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c ClaimDeliveryCommand) Validate() error {
//	    return c.guard.Validate(ErrClaimNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
