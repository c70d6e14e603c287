// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the admin service and the client can all import
// types without depending on each other.
package types

// DateLayout is the layout of every date string the API accepts or returns
// (lastLogin, dueDate, paidDate).
const DateLayout = "2006-01-02"

// User roles.
const (
	RoleTeacher = "Teacher"
	RoleParent  = "Parent"
	RoleManager = "Manager"
	RoleAdmin   = "Admin"
)

// User statuses.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Payment statuses.
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentOverdue  = "Overdue"
	PaymentRefunded = "Refunded"
)

// DefaultPaymentMethod is recorded when a payment is marked paid without
// an explicit method.
const DefaultPaymentMethod = "Manual Entry"

// User is a stored admin-portal account.
//
// PasswordHash carries the bcrypt hash and is tagged json:"-" so it can
// never leak into a response, even if a User is encoded by mistake.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	LastLogin    string `json:"lastLogin"`
}

// PublicUser is the redacted view of a User returned by every endpoint.
type PublicUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	LastLogin string `json:"lastLogin"`
}

// Public returns the redacted subset of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		LastLogin: u.LastLogin,
	}
}

// CreateUserRequest is the body of POST /api/admin/create-user.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     controls how the field appears when decoded from JSON.
//
//  2. validate:"..." rules checked by the go-playground/validator
//     package. "omitempty" lets optional fields stay blank.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=Teacher Parent Manager Admin"`
	Status   string `json:"status"   validate:"omitempty,oneof=Active Inactive"`
}

// EditUserRequest is the body of PUT /api/admin/edit-user/{id}.
// Password, Role and Status are only applied when non-empty.
type EditUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"omitempty,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=Teacher Parent Manager Admin"`
	Status   string `json:"status"   validate:"omitempty,oneof=Active Inactive"`
}

// Payment is a course fee owed by a student.
type Payment struct {
	ID          int64   `json:"id"`
	StudentName string  `json:"studentName"`
	Course      string  `json:"course"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	DueDate     string  `json:"dueDate"`
	PaidDate    *string `json:"paidDate"`
	Method      *string `json:"method"`
	Notes       string  `json:"notes"`
}

// CreatePaymentRequest is the body of POST /api/payments.
type CreatePaymentRequest struct {
	StudentName string  `json:"studentName" validate:"required"`
	Course      string  `json:"course"      validate:"required"`
	Amount      float64 `json:"amount"      validate:"required,gt=0"`
	DueDate     string  `json:"dueDate"     validate:"required,datetime=2006-01-02"`
	Status      string  `json:"status"      validate:"omitempty,oneof=Pending Paid Overdue"`
	Method      string  `json:"method"`
	Notes       string  `json:"notes"`
}

// MarkPaidRequest is the optional body of POST /api/payments/{id}/mark-paid.
type MarkPaidRequest struct {
	Method   string `json:"method"`
	PaidDate string `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
}

// ReminderRequest is the body of POST /api/payments/{id}/reminder.
type ReminderRequest struct {
	Message   string `json:"message"   validate:"required"`
	SendEmail bool   `json:"sendEmail"`
	SendSMS   bool   `json:"sendSMS"`
}

// Reminder describes a dispatched payment reminder.
type Reminder struct {
	ID              string   `json:"reminderId"`
	PaymentID       int64    `json:"paymentId"`
	Message         string   `json:"-"`
	DeliveryMethods []string `json:"deliveryMethods"`
}

// Meta is the static catalogue served by GET /api/meta.
type Meta struct {
	Subjects    []string `json:"subjects"`
	Curriculums []string `json:"curriculums"`
	Categories  []string `json:"categories"`
}
