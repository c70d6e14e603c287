package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// Users manages admin-portal accounts.
//
// Usernames and emails are unique (compared case-insensitively). The
// check-then-write sequences of Create and Edit run under mu so two
// concurrent requests cannot both claim the same name.
type Users struct {
	store storage.UserStorage
	opts  options
	mu    sync.Mutex
}

// NewUsers returns a Users service backed by store.
func NewUsers(store storage.UserStorage, opts ...Option) *Users {
	return &Users{store: store, opts: newOptions(opts)}
}

// List returns every user, redacted.
func (s *Users) List(ctx context.Context) ([]types.PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return publicUsers(users), nil
}

// Search returns users whose username or email contains query, ignoring
// case. A blank query matches everyone.
func (s *Users) Search(ctx context.Context, query string) ([]types.PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	q := normalize(query)
	if q == "" {
		return publicUsers(users), nil
	}

	matched := make([]types.User, 0)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			matched = append(matched, u)
		}
	}
	return publicUsers(matched), nil
}

// View returns a single redacted user.
func (s *Users) View(ctx context.Context, id int64) (types.PublicUser, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return types.PublicUser{}, notFound(err, "user")
	}
	return user.Public(), nil
}

// Create adds a new account. Role defaults to Teacher, status to Active,
// and lastLogin is stamped with today's date.
func (s *Users) Create(ctx context.Context, req types.CreateUserRequest) (types.PublicUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.opts.check(req); err != nil {
		return types.PublicUser{}, err
	}
	if err := checkPasswordLength(req.Password); err != nil {
		return types.PublicUser{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.bcryptCost)
	if err != nil {
		return types.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(ctx, 0, req.Username, req.Email); err != nil {
		return types.PublicUser{}, err
	}

	user := types.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         valueOr(req.Role, types.RoleTeacher),
		Status:       valueOr(req.Status, types.StatusActive),
		LastLogin:    s.opts.today(),
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return types.PublicUser{}, fmt.Errorf("create user: %w", err)
	}
	return created.Public(), nil
}

// Edit updates username and email, and the password, role and status when
// supplied. The edited user's own username and email never conflict.
func (s *Users) Edit(ctx context.Context, id int64, req types.EditUserRequest) (types.PublicUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.opts.check(req); err != nil {
		return types.PublicUser{}, err
	}
	if err := checkPasswordLength(req.Password); err != nil {
		return types.PublicUser{}, err
	}

	var hash []byte
	if req.Password != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.bcryptCost)
		if err != nil {
			return types.PublicUser{}, fmt.Errorf("hash password: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return types.PublicUser{}, notFound(err, "user")
	}

	if err := s.checkUnique(ctx, id, req.Username, req.Email); err != nil {
		return types.PublicUser{}, err
	}

	user.Username = req.Username
	user.Email = req.Email
	if hash != nil {
		user.PasswordHash = string(hash)
	}
	user.Role = valueOr(req.Role, user.Role)
	user.Status = valueOr(req.Status, user.Status)

	updated, err := s.store.UpdateUserByID(ctx, id, user)
	if err != nil {
		return types.PublicUser{}, notFound(err, "user")
	}
	return updated.Public(), nil
}

// Delete removes an account.
func (s *Users) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteUserByID(ctx, id); err != nil {
		return notFound(err, "user")
	}
	return nil
}

// checkUnique reports ErrConflict when another user (id != exclude) holds
// username, then when one holds email. Callers hold mu.
func (s *Users) checkUnique(ctx context.Context, exclude int64, username, email string) error {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("check uniqueness: %w", err)
	}

	name := normalize(username)
	for _, u := range users {
		if u.ID != exclude && normalize(u.Username) == name {
			return fmt.Errorf("username %w", ErrConflict)
		}
	}

	mail := normalize(email)
	for _, u := range users {
		if u.ID != exclude && normalize(u.Email) == mail {
			return fmt.Errorf("email %w", ErrConflict)
		}
	}

	return nil
}

func publicUsers(users []types.User) []types.PublicUser {
	out := make([]types.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// maxPasswordBytes is the longest input bcrypt accepts. The validate tag
// counts runes, so multibyte passwords are measured here in bytes.
const maxPasswordBytes = 72

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password exceeds %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}
