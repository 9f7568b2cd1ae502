package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing local entity and a referenced
	// remote entity that does not resolve.
	ErrNotFound              = errors.New("not found")
	ErrAlreadyExists         = errors.New("already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrValidation            = errors.New("invalid request")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrNoHealthyInstance     = errors.New("no healthy instance")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("password does not meet complexity requirements")
	ErrTokenGeneration    = errors.New("token generation failed")

	ErrWorkerPanic = errors.New("worker panic")
)

// ReferenceNotFoundError reports a foreign-owned id that could not be
// resolved on the service that owns it. Distinct from DependencyError:
// the owning service answered, the entity just isn't there.
type ReferenceNotFoundError struct {
	Service string
	ID      int64
}

func (e ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference %d not found on %s", e.ID, e.Service)
}

func (e ReferenceNotFoundError) Unwrap() error { return ErrNotFound }

// DependencyError reports a 5xx or transport failure while talking to
// another service. Callers must not mask this as a not-found.
type DependencyError struct {
	Service string
	Cause   error
}

func (e DependencyError) Error() string {
	return fmt.Sprintf("service %s unavailable: %v", e.Service, e.Cause)
}

func (e DependencyError) Unwrap() error { return ErrDependencyUnavailable }

// ForwardError reports a downstream 4xx on a forwarded write. The
// status class survives so the caller surfaces the downstream verdict
// instead of a generic not-found.
type ForwardError struct {
	Service string
	Status  int
}

func (e ForwardError) Error() string {
	return fmt.Sprintf("%s rejected forwarded request with status %d", e.Service, e.Status)
}

func (e ForwardError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrInvalidCredentials
	case 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 409:
		return ErrAlreadyExists
	default:
		return ErrValidation
	}
}

// RoleError reports a resolved reference whose role does not match the
// role the operation requires.
type RoleError struct {
	ID   int64
	Want string
	Got  string
}

func (e RoleError) Error() string {
	return fmt.Sprintf("user %d has role %s, %s required", e.ID, e.Got, e.Want)
}

func (e RoleError) Unwrap() error { return ErrUnauthorized }
