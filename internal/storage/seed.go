package storage

import "github.com/aanand-mishra/edu-admin-api/internal/types"

// Seed is the initial content loaded into a fresh store.
type Seed struct {
	Users    []types.User
	Payments []types.Payment
}

// seedPasswordHash is a placeholder bcrypt hash. Seed accounts get a real
// password through edit-user.
const seedPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// DefaultSeed returns the demo data the portal ships with.
// A new copy is returned on every call so callers may mutate it freely.
func DefaultSeed() Seed {
	return Seed{
		Users: []types.User{
			{ID: 1, Username: "john_teacher", Email: "john@example.com", PasswordHash: seedPasswordHash, Role: types.RoleTeacher, Status: types.StatusActive, LastLogin: "2024-03-15"},
			{ID: 2, Username: "sarah_parent", Email: "sarah@example.com", PasswordHash: seedPasswordHash, Role: types.RoleParent, Status: types.StatusActive, LastLogin: "2024-03-14"},
			{ID: 3, Username: "mike_manager", Email: "mike@example.com", PasswordHash: seedPasswordHash, Role: types.RoleManager, Status: types.StatusInactive, LastLogin: "2024-03-10"},
			{ID: 4, Username: "emma_teacher", Email: "emma@example.com", PasswordHash: seedPasswordHash, Role: types.RoleTeacher, Status: types.StatusActive, LastLogin: "2024-03-16"},
		},
		Payments: []types.Payment{
			{ID: 1, StudentName: "Alice Johnson", Course: "Mathematics 101", Amount: 299.99, Status: types.PaymentPaid, DueDate: "2024-03-01", PaidDate: strPtr("2024-02-28"), Method: strPtr("Credit Card"), Notes: ""},
			{ID: 2, StudentName: "Bob Smith", Course: "Physics Fundamentals", Amount: 349.50, Status: types.PaymentPending, DueDate: "2024-03-20", Notes: ""},
			{ID: 3, StudentName: "Carol White", Course: "English Literature", Amount: 199.00, Status: types.PaymentOverdue, DueDate: "2024-02-15", Notes: "Second notice sent"},
			{ID: 4, StudentName: "David Brown", Course: "Chemistry Lab", Amount: 425.00, Status: types.PaymentRefunded, DueDate: "2024-02-01", PaidDate: strPtr("2024-01-30"), Method: strPtr("Bank Transfer"), Notes: "Course cancelled"},
		},
	}
}

func strPtr(s string) *string { return &s }
