// Package storagetest holds the contract tests every storage.Storage
// backend must pass. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh store loaded with seed.
type Factory func(t *testing.T, seed storage.Seed) storage.Storage

// Run exercises the full contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("ListUsersSeeded", func(t *testing.T) { testListUsersSeeded(t, newStore) })
	t.Run("EmptyListsAreNotNil", func(t *testing.T) { testEmptyLists(t, newStore) })
	t.Run("UserCRUD", func(t *testing.T) { testUserCRUD(t, newStore) })
	t.Run("UserIDsNotReused", func(t *testing.T) { testUserIDsNotReused(t, newStore) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, newStore) })
	t.Run("PaymentCRUD", func(t *testing.T) { testPaymentCRUD(t, newStore) })
	t.Run("PaymentNotFound", func(t *testing.T) { testPaymentNotFound(t, newStore) })
}

func testListUsersSeeded(t *testing.T, newStore Factory) {
	seed := storage.DefaultSeed()
	s := newStore(t, seed)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Users, users)

	payments, err := s.ListPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Payments, payments)
}

func testEmptyLists(t *testing.T, newStore Factory) {
	s := newStore(t, storage.Seed{})
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	payments, err := s.ListPayments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}

func testUserCRUD(t *testing.T, newStore Factory) {
	s := newStore(t, storage.DefaultSeed())
	ctx := context.Background()

	created, err := s.CreateUser(ctx, types.User{
		Username:     "ann",
		Email:        "ann@x.com",
		PasswordHash: "hash",
		Role:         types.RoleTeacher,
		Status:       types.StatusActive,
		LastLogin:    "2024-03-18",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)

	got, err := s.GetUserByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Email = "ann@y.com"
	got.Status = types.StatusInactive
	updated, err := s.UpdateUserByID(ctx, 5, got)
	require.NoError(t, err)
	assert.Equal(t, "ann@y.com", updated.Email)
	assert.Equal(t, types.StatusInactive, updated.Status)
	assert.Equal(t, int64(5), updated.ID)

	require.NoError(t, s.DeleteUserByID(ctx, 2))
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []int64{1, 3, 4, 5}, ids)
}

func testUserIDsNotReused(t *testing.T, newStore Factory) {
	s := newStore(t, storage.DefaultSeed())
	ctx := context.Background()

	require.NoError(t, s.DeleteUserByID(ctx, 4))

	created, err := s.CreateUser(ctx, types.User{Username: "x", Email: "x@x.com", PasswordHash: "h", Role: types.RoleTeacher, Status: types.StatusActive, LastLogin: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}

func testUserNotFound(t *testing.T, newStore Factory) {
	s := newStore(t, storage.DefaultSeed())
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.UpdateUserByID(ctx, 99, types.User{Username: "x", Email: "x@x.com"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.DeleteUserByID(ctx, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

func testPaymentCRUD(t *testing.T, newStore Factory) {
	s := newStore(t, storage.DefaultSeed())
	ctx := context.Background()

	created, err := s.CreatePayment(ctx, types.Payment{
		StudentName: "Eve Adams",
		Course:      "Biology",
		Amount:      150.5,
		Status:      types.PaymentPending,
		DueDate:     "2024-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)

	got, err := s.GetPaymentByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Nil(t, got.PaidDate)

	paidDate, method := "2024-03-18", "Cash"
	got.Status = types.PaymentPaid
	got.PaidDate = &paidDate
	got.Method = &method
	updated, err := s.UpdatePaymentByID(ctx, 5, got)
	require.NoError(t, err)
	require.NotNil(t, updated.PaidDate)
	assert.Equal(t, "2024-03-18", *updated.PaidDate)
	assert.Equal(t, "Cash", *updated.Method)

	// Mutating the caller's copy must not reach the store.
	method = "Cheque"
	again, err := s.GetPaymentByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Cash", *again.Method)
}

func testPaymentNotFound(t *testing.T, newStore Factory) {
	s := newStore(t, storage.DefaultSeed())
	ctx := context.Background()

	_, err := s.GetPaymentByID(ctx, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.UpdatePaymentByID(ctx, 99, types.Payment{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
