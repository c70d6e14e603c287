// Package admin implements the admin-portal operations on top of a
// storage.Storage: user management with unique usernames and emails, and
// the payment lifecycle (create, mark-paid, refund, reminder).
//
// Every backend shares these rules, so handlers never talk to the store
// directly.
package admin

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
)

// Error taxonomy. Handlers map each sentinel to an HTTP status with
// errors.Is; anything else is an internal error.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// notFound rewraps a storage miss into ErrNotFound and passes any other
// error through untouched.
func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
