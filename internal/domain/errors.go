package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a project schedule, group or row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is a user-actionable rejection at the save boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
