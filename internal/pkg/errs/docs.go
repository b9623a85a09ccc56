// Package errs holds the error taxonomy shared by the domain, application and adapters.
//
// Every kind follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ErrInvalidState, ...)
//   - a struct carrying the details and an optional Cause
//   - constructors with and without a cause
//   - Unwrap returning the sentinel, so errors.Is classifies wrapped errors
//
// Kinds and their meaning for callers:
//   - ObjectNotFoundError: the object is missing or not visible to the caller
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - InvalidStateError: the object exists but its state forbids the operation
//   - ConflictError: the operation clashes with data that already exists
//   - ForbiddenError: the caller is authenticated but lacks the privilege
package errs
