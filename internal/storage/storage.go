// Package storage defines the Storage interface, the contract every
// Record Store backend must satisfy to work with this application.
//
// Two backends live under this package:
//
//   - memory: a process-local store seeded at start-up and reset on restart
//   - sqlite: the same contract persisted to a single SQLite file
//
// The store is a plain repository: list / find / insert / update / delete.
// Business rules (uniqueness, defaults, the payment state machine) live in
// internal/admin so that every backend behaves identically.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/edu-admin-api/internal/types"
)

// ErrNotFound is returned by every lookup or mutation that targets an id
// the store does not hold.
var ErrNotFound = errors.New("record not found")

// UserStorage is the user half of the store.
type UserStorage interface {
	// ListUsers returns every user in insertion order.
	// Returns an empty slice (not nil) if there are no users.
	ListUsers(ctx context.Context) ([]types.User, error)

	// GetUserByID fetches a single user or ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (types.User, error)

	// CreateUser assigns the next id from a monotonic counter, appends the
	// user and returns the stored record. Ids are never reused.
	CreateUser(ctx context.Context, user types.User) (types.User, error)

	// UpdateUserByID replaces the stored fields of an existing user and
	// returns the stored record.
	UpdateUserByID(ctx context.Context, id int64, user types.User) (types.User, error)

	// DeleteUserByID removes a user. Remaining users keep their order.
	DeleteUserByID(ctx context.Context, id int64) error
}

// PaymentStorage is the payment half of the store.
type PaymentStorage interface {
	ListPayments(ctx context.Context) ([]types.Payment, error)
	GetPaymentByID(ctx context.Context, id int64) (types.Payment, error)
	CreatePayment(ctx context.Context, payment types.Payment) (types.Payment, error)
	UpdatePaymentByID(ctx context.Context, id int64, payment types.Payment) (types.Payment, error)
}

// Storage is the full Record Store contract.
type Storage interface {
	UserStorage
	PaymentStorage

	// Close releases backend resources.
	Close() error
}
