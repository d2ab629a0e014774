package store

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName = errors.New("store: list name already exists")
	ErrUnknownFilter = errors.New("store: unknown filter")
)

// ValidationError rejects input before anything in the store changes.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError reports a save that failed after the in-memory change was
// applied. The in-memory state stays authoritative.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: changes may not be saved: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
