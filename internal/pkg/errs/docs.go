// Package errs provides standardized error types for the ByteBite dispatch service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For numeric values outside their allowed bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConflictError: For state changes that lost a race or are no longer allowed
//   - ForbiddenError: For callers acting on a resource that is not theirs
//   - VersionIsInvalidError: For conditional writes rejected by the entity store
//   - PersistenceError: For store or queue failures
//   - CorruptRecordError: For stored rows that no longer decode
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Callers classify errors with errors.Is against the sentinels; the HTTP adapter
// turns each sentinel into a status code.
package errs
