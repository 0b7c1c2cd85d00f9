package resource

import "errors"

// Domain errors for the resource package. Check them with errors.Is.
var (
	// ErrNotFound is returned when no resource has the requested name.
	ErrNotFound = errors.New("resource: not found")

	// ErrDuplicateName is returned when adding a resource whose name is taken.
	ErrDuplicateName = errors.New("resource: duplicate name")

	// ErrUnknownKind is returned when a kind name is not recognised.
	ErrUnknownKind = errors.New("resource: unknown kind")

	// ErrNotRunning is returned when refreshing a stopped resource.
	ErrNotRunning = errors.New("resource: not running")

	// ErrInvalidName is returned for an empty resource name.
	ErrInvalidName = errors.New("resource: invalid name")
)
