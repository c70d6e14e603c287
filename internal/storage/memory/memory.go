// Package memory provides the in-process implementation of
// storage.Storage: the Record Store the portal runs on by default.
//
// Records live in ordered slices guarded by a sync.RWMutex. Nothing is
// written to disk; a restart resets the store to its seed.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
)

// Memory is the in-memory Record Store.
type Memory struct {
	mu            sync.RWMutex
	users         []types.User
	payments      []types.Payment
	nextUserID    int64
	nextPaymentID int64
}

// New returns a store loaded with a copy of seed. The id counters start
// after the highest seeded id.
func New(seed storage.Seed) *Memory {
	m := &Memory{
		users:         make([]types.User, 0, len(seed.Users)),
		payments:      make([]types.Payment, 0, len(seed.Payments)),
		nextUserID:    1,
		nextPaymentID: 1,
	}

	for _, u := range seed.Users {
		m.users = append(m.users, u)
		if u.ID >= m.nextUserID {
			m.nextUserID = u.ID + 1
		}
	}
	for _, p := range seed.Payments {
		m.payments = append(m.payments, clonePayment(p))
		if p.ID >= m.nextPaymentID {
			m.nextPaymentID = p.ID + 1
		}
	}

	return m
}

// Close is a no-op; there is nothing to release.
func (m *Memory) Close() error { return nil }

func (m *Memory) ListUsers(_ context.Context) ([]types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]types.User, len(m.users))
	copy(users, m.users)
	return users, nil
}

func (m *Memory) GetUserByID(_ context.Context, id int64) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.userIndex(id)
	if i < 0 {
		return types.User{}, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	return m.users[i], nil
}

func (m *Memory) CreateUser(_ context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = m.nextUserID
	m.nextUserID++
	m.users = append(m.users, user)
	return user, nil
}

func (m *Memory) UpdateUserByID(_ context.Context, id int64, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.userIndex(id)
	if i < 0 {
		return types.User{}, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	user.ID = id
	m.users[i] = user
	return user, nil
}

func (m *Memory) DeleteUserByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.userIndex(id)
	if i < 0 {
		return fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	m.users = append(m.users[:i], m.users[i+1:]...)
	return nil
}

func (m *Memory) ListPayments(_ context.Context) ([]types.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := make([]types.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		payments = append(payments, clonePayment(p))
	}
	return payments, nil
}

func (m *Memory) GetPaymentByID(_ context.Context, id int64) (types.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.paymentIndex(id)
	if i < 0 {
		return types.Payment{}, fmt.Errorf("payment %d: %w", id, storage.ErrNotFound)
	}
	return clonePayment(m.payments[i]), nil
}

func (m *Memory) CreatePayment(_ context.Context, payment types.Payment) (types.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment.ID = m.nextPaymentID
	m.nextPaymentID++
	m.payments = append(m.payments, clonePayment(payment))
	return clonePayment(payment), nil
}

func (m *Memory) UpdatePaymentByID(_ context.Context, id int64, payment types.Payment) (types.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.paymentIndex(id)
	if i < 0 {
		return types.Payment{}, fmt.Errorf("payment %d: %w", id, storage.ErrNotFound)
	}
	payment.ID = id
	m.payments[i] = clonePayment(payment)
	return clonePayment(payment), nil
}

// userIndex returns the slice position of id, or -1. Callers hold mu.
func (m *Memory) userIndex(id int64) int {
	for i, u := range m.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) paymentIndex(id int64) int {
	for i, p := range m.payments {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// clonePayment copies the optional fields so callers never share pointers
// with the store.
func clonePayment(p types.Payment) types.Payment {
	if p.PaidDate != nil {
		d := *p.PaidDate
		p.PaidDate = &d
	}
	if p.Method != nil {
		method := *p.Method
		p.Method = &method
	}
	return p
}
