package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound        = errors.New("db: key not found")
	ErrCollectionNotFound = errors.New("db: collection not found")
	ErrUnavailable        = errors.New("db: backend unavailable")
)

// Op constants name the backend operation for error context.
const (
	OpFind = "FIND"
	OpPing = "PING"
	OpGet  = "GET"
	OpSet  = "SET"

	OpEnsureIndex = "ENSURE_INDEX"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
