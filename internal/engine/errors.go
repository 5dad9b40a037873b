package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("country code already present")
	ErrEmptyProjection   = errors.New("projection is empty")
	ErrCapacityExhausted = errors.New("table capacity exhausted")
	ErrInvalidCode       = errors.New("country code must be three letters A-Z")
	ErrUnknownRelation   = errors.New("unknown relation")
	ErrUnknownExtreme    = errors.New("unknown extreme")
)

// RowError reports a malformed CSV line.
type RowError struct {
	Line  int
	Field int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d field %d: %v", e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
