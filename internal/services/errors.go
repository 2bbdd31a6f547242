package services

import (
	"errors"
	"fmt"

	"github.com/retroshelf/retroshelf/internal/models"
)

// ErrNotFound marks a referenced row that does not exist. Handlers translate
// it to 404.
var ErrNotFound = errors.New("not found")

// ConflictError reports an attempt to decide an item change that has already
// left the pending state. The message carries the current status.
type ConflictError struct {
	Status models.ChangeStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("change request is already marked as '%s'", e.Status)
}

// ValidationError reports invalid caller input detected before any mutation.
// Handlers translate it to 400 with the reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
