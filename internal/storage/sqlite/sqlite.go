// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It is the file-backed alternative to the in-memory store: select it with
// storage.driver: sqlite. Records survive a restart; the seed is only
// loaded into an empty database.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT    NOT NULL UNIQUE,
		email         TEXT    NOT NULL UNIQUE,
		password_hash TEXT    NOT NULL,
		role          TEXT    NOT NULL,
		status        TEXT    NOT NULL,
		last_login    TEXT    NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payments (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		student_name TEXT    NOT NULL,
		course       TEXT    NOT NULL,
		amount       REAL    NOT NULL,
		status       TEXT    NOT NULL,
		due_date     TEXT    NOT NULL,
		paid_date    TEXT,
		method       TEXT,
		notes        TEXT    NOT NULL DEFAULT ''
	);
`

// New opens the SQLite database at path, creates the tables if they do not
// already exist and loads seed when the users and payments tables are empty.
func New(path string, seed *storage.Seed) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet; it just validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe to run on every startup.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	s := &SQLite{Db: db}
	if seed != nil {
		if err := s.loadSeed(context.Background(), *seed); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite.New: seed: %w", err)
		}
	}

	return s, nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func (s *SQLite) loadSeed(ctx context.Context, seed storage.Seed) error {
	var count int
	if err := s.Db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM users) + (SELECT COUNT(*) FROM payments)",
	).Scan(&count); err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, u := range seed.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password_hash, role, status, last_login)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Status, u.LastLogin,
		); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}
	for _, p := range seed.Payments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (id, student_name, course, amount, status, due_date, paid_date, method, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.StudentName, p.Course, p.Amount, p.Status, p.DueDate,
			nullString(p.PaidDate), nullString(p.Method), p.Notes,
		); err != nil {
			return fmt.Errorf("insert payment %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

const userColumns = "id, username, email, password_hash, role, status, last_login"

func (s *SQLite) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.Db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("ListUsers: query: %w", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers: scan row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: rows iteration: %w", err)
	}

	return users, nil
}

func (s *SQLite) GetUserByID(ctx context.Context, id int64) (types.User, error) {
	row := s.Db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
		}
		return types.User{}, fmt.Errorf("GetUserByID: scan: %w", err)
	}

	return user, nil
}

func (s *SQLite) CreateUser(ctx context.Context, user types.User) (types.User, error) {
	result, err := s.Db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role, status, last_login)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.Role, user.Status, user.LastLogin,
	)
	if err != nil {
		return types.User{}, fmt.Errorf("CreateUser: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	user.ID, err = result.LastInsertId()
	if err != nil {
		return types.User{}, fmt.Errorf("CreateUser: last insert id: %w", err)
	}

	return user, nil
}

func (s *SQLite) UpdateUserByID(ctx context.Context, id int64, user types.User) (types.User, error) {
	result, err := s.Db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, role = ?, status = ?, last_login = ?
		 WHERE id = ?`,
		user.Username, user.Email, user.PasswordHash, user.Role, user.Status, user.LastLogin, id,
	)
	if err != nil {
		return types.User{}, fmt.Errorf("UpdateUserByID: exec: %w", err)
	}
	if err := requireAffected(result, "user", id); err != nil {
		return types.User{}, err
	}

	// Re-fetch the record so we return exactly what is stored in the DB.
	return s.GetUserByID(ctx, id)
}

func (s *SQLite) DeleteUserByID(ctx context.Context, id int64) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteUserByID: exec: %w", err)
	}
	return requireAffected(result, "user", id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Payments
// ─────────────────────────────────────────────────────────────────────────────

const paymentColumns = "id, student_name, course, amount, status, due_date, paid_date, method, notes"

func (s *SQLite) ListPayments(ctx context.Context) ([]types.Payment, error) {
	rows, err := s.Db.QueryContext(ctx, "SELECT "+paymentColumns+" FROM payments ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("ListPayments: query: %w", err)
	}
	defer rows.Close()

	payments := make([]types.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPayments: scan row: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPayments: rows iteration: %w", err)
	}

	return payments, nil
}

func (s *SQLite) GetPaymentByID(ctx context.Context, id int64) (types.Payment, error) {
	row := s.Db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ? LIMIT 1", id)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Payment{}, fmt.Errorf("payment %d: %w", id, storage.ErrNotFound)
		}
		return types.Payment{}, fmt.Errorf("GetPaymentByID: scan: %w", err)
	}

	return payment, nil
}

func (s *SQLite) CreatePayment(ctx context.Context, payment types.Payment) (types.Payment, error) {
	result, err := s.Db.ExecContext(ctx,
		`INSERT INTO payments (student_name, course, amount, status, due_date, paid_date, method, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.StudentName, payment.Course, payment.Amount, payment.Status, payment.DueDate,
		nullString(payment.PaidDate), nullString(payment.Method), payment.Notes,
	)
	if err != nil {
		return types.Payment{}, fmt.Errorf("CreatePayment: exec: %w", err)
	}

	payment.ID, err = result.LastInsertId()
	if err != nil {
		return types.Payment{}, fmt.Errorf("CreatePayment: last insert id: %w", err)
	}

	return payment, nil
}

func (s *SQLite) UpdatePaymentByID(ctx context.Context, id int64, payment types.Payment) (types.Payment, error) {
	result, err := s.Db.ExecContext(ctx,
		`UPDATE payments
		 SET student_name = ?, course = ?, amount = ?, status = ?, due_date = ?, paid_date = ?, method = ?, notes = ?
		 WHERE id = ?`,
		payment.StudentName, payment.Course, payment.Amount, payment.Status, payment.DueDate,
		nullString(payment.PaidDate), nullString(payment.Method), payment.Notes, id,
	)
	if err != nil {
		return types.Payment{}, fmt.Errorf("UpdatePaymentByID: exec: %w", err)
	}
	if err := requireAffected(result, "payment", id); err != nil {
		return types.Payment{}, err
	}

	return s.GetPaymentByID(ctx, id)
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.LastLogin,
	)
	return user, err
}

func scanPayment(row scanner) (types.Payment, error) {
	var (
		payment  types.Payment
		paidDate sql.NullString
		method   sql.NullString
	)
	err := row.Scan(
		&payment.ID,
		&payment.StudentName,
		&payment.Course,
		&payment.Amount,
		&payment.Status,
		&payment.DueDate,
		&paidDate,
		&method,
		&payment.Notes,
	)
	if err != nil {
		return types.Payment{}, err
	}
	if paidDate.Valid {
		payment.PaidDate = &paidDate.String
	}
	if method.Valid {
		payment.Method = &method.String
	}
	return payment, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func requireAffected(result sql.Result, kind string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: rows affected: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
