package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/google/uuid"
)

// Notifier delivers payment reminders. internal/notify provides the
// implementation wired in main.
type Notifier interface {
	Notify(ctx context.Context, reminder types.Reminder, payment types.Payment) error
}

// Payments manages course fee payments.
//
// Status transitions:
//
//	Pending, Overdue --mark-paid--> Paid --refund--> Refunded
//
// Refunded is terminal. Payments are never deleted.
type Payments struct {
	store    storage.PaymentStorage
	notifier Notifier
	opts     options
	mu       sync.Mutex
}

// NewPayments returns a Payments service backed by store. Reminders go to
// notifier.
func NewPayments(store storage.PaymentStorage, notifier Notifier, opts ...Option) *Payments {
	return &Payments{store: store, notifier: notifier, opts: newOptions(opts)}
}

// List returns every payment.
func (s *Payments) List(ctx context.Context) ([]types.Payment, error) {
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// View returns one payment.
func (s *Payments) View(ctx context.Context, id int64) (types.Payment, error) {
	payment, err := s.store.GetPaymentByID(ctx, id)
	if err != nil {
		return types.Payment{}, notFound(err, "payment")
	}
	return payment, nil
}

// Create records a new payment. Status defaults to Pending. A payment
// created as Paid gets today's paidDate and a method ("Manual Entry" when
// none was given).
func (s *Payments) Create(ctx context.Context, req types.CreatePaymentRequest) (types.Payment, error) {
	req.StudentName = strings.TrimSpace(req.StudentName)
	req.Course = strings.TrimSpace(req.Course)
	if err := s.opts.check(req); err != nil {
		return types.Payment{}, err
	}

	payment := types.Payment{
		StudentName: req.StudentName,
		Course:      req.Course,
		Amount:      req.Amount,
		Status:      valueOr(req.Status, types.PaymentPending),
		DueDate:     req.DueDate,
		Notes:       req.Notes,
	}
	if req.Method != "" {
		payment.Method = &req.Method
	}
	if payment.Status == types.PaymentPaid {
		today := s.opts.today()
		payment.PaidDate = &today
		if payment.Method == nil {
			method := types.DefaultPaymentMethod
			payment.Method = &method
		}
	}

	created, err := s.store.CreatePayment(ctx, payment)
	if err != nil {
		return types.Payment{}, fmt.Errorf("create payment: %w", err)
	}
	return created, nil
}

// MarkPaid moves a Pending or Overdue payment to Paid. A payment that is
// already Paid or Refunded is left untouched.
func (s *Payments) MarkPaid(ctx context.Context, id int64, req types.MarkPaidRequest) (types.Payment, error) {
	if err := s.opts.check(req); err != nil {
		return types.Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payment, err := s.store.GetPaymentByID(ctx, id)
	if err != nil {
		return types.Payment{}, notFound(err, "payment")
	}

	switch payment.Status {
	case types.PaymentPaid:
		return types.Payment{}, fmt.Errorf("%w: payment is already marked as paid", ErrInvalidTransition)
	case types.PaymentRefunded:
		return types.Payment{}, fmt.Errorf("%w: refunded payment cannot be marked as paid", ErrInvalidTransition)
	}

	method := valueOr(strings.TrimSpace(req.Method), types.DefaultPaymentMethod)
	paidDate := valueOr(req.PaidDate, s.opts.today())
	payment.Status = types.PaymentPaid
	payment.Method = &method
	payment.PaidDate = &paidDate

	updated, err := s.store.UpdatePaymentByID(ctx, id, payment)
	if err != nil {
		return types.Payment{}, notFound(err, "payment")
	}
	return updated, nil
}

// Refund moves a Paid payment to Refunded and appends an audit line to its
// notes.
func (s *Payments) Refund(ctx context.Context, id int64) (types.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, err := s.store.GetPaymentByID(ctx, id)
	if err != nil {
		return types.Payment{}, notFound(err, "payment")
	}

	if payment.Status != types.PaymentPaid {
		return types.Payment{}, fmt.Errorf("%w: only paid payments can be refunded", ErrInvalidTransition)
	}

	audit := "Refunded on " + s.opts.today()
	if payment.Notes == "" {
		payment.Notes = audit
	} else {
		payment.Notes += "\n" + audit
	}
	payment.Status = types.PaymentRefunded

	updated, err := s.store.UpdatePaymentByID(ctx, id, payment)
	if err != nil {
		return types.Payment{}, notFound(err, "payment")
	}
	return updated, nil
}

// Remind sends a reminder about a payment through the notifier. The
// payment itself is not modified. Email is used when no delivery method
// was requested.
func (s *Payments) Remind(ctx context.Context, id int64, req types.ReminderRequest) (types.Reminder, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := s.opts.check(req); err != nil {
		return types.Reminder{}, err
	}

	payment, err := s.store.GetPaymentByID(ctx, id)
	if err != nil {
		return types.Reminder{}, notFound(err, "payment")
	}

	methods := make([]string, 0, 2)
	if req.SendEmail {
		methods = append(methods, "email")
	}
	if req.SendSMS {
		methods = append(methods, "sms")
	}
	if len(methods) == 0 {
		methods = append(methods, "email")
	}

	reminder := types.Reminder{
		ID:              uuid.NewString(),
		PaymentID:       payment.ID,
		Message:         req.Message,
		DeliveryMethods: methods,
	}

	if err := s.notifier.Notify(ctx, reminder, payment); err != nil {
		return types.Reminder{}, fmt.Errorf("send reminder: %w", err)
	}
	return reminder, nil
}
