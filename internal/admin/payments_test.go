package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/storage/memory"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	reminders []types.Reminder
	err       error
}

func (n *recordingNotifier) Notify(_ context.Context, r types.Reminder, _ types.Payment) error {
	if n.err != nil {
		return n.err
	}
	n.reminders = append(n.reminders, r)
	return nil
}

func newTestPayments(t *testing.T) (*Payments, *memory.Memory, *recordingNotifier) {
	t.Helper()
	store := memory.New(storage.DefaultSeed())
	notifier := &recordingNotifier{}
	return NewPayments(store, notifier, testOptions()...), store, notifier
}

func TestPayments_Create(t *testing.T) {
	svc, _, _ := newTestPayments(t)
	ctx := context.Background()

	payment, err := svc.Create(ctx, types.CreatePaymentRequest{
		StudentName: "Eve Adams",
		Course:      "Biology",
		Amount:      150,
		DueDate:     "2024-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), payment.ID)
	assert.Equal(t, types.PaymentPending, payment.Status)
	assert.Nil(t, payment.PaidDate)
	assert.Nil(t, payment.Method)

	paid, err := svc.Create(ctx, types.CreatePaymentRequest{
		StudentName: "Frank Moore",
		Course:      "History",
		Amount:      80.25,
		DueDate:     "2024-04-01",
		Status:      types.PaymentPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), paid.ID)
	require.NotNil(t, paid.PaidDate)
	assert.Equal(t, "2024-03-18", *paid.PaidDate)
	require.NotNil(t, paid.Method)
	assert.Equal(t, types.DefaultPaymentMethod, *paid.Method)
}

func TestPayments_CreateValidation(t *testing.T) {
	svc, store, _ := newTestPayments(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  types.CreatePaymentRequest
	}{
		{"missing student", types.CreatePaymentRequest{Course: "c", Amount: 1, DueDate: "2024-01-01"}},
		{"missing course", types.CreatePaymentRequest{StudentName: "s", Amount: 1, DueDate: "2024-01-01"}},
		{"zero amount", types.CreatePaymentRequest{StudentName: "s", Course: "c", DueDate: "2024-01-01"}},
		{"negative amount", types.CreatePaymentRequest{StudentName: "s", Course: "c", Amount: -3, DueDate: "2024-01-01"}},
		{"missing due date", types.CreatePaymentRequest{StudentName: "s", Course: "c", Amount: 1}},
		{"bad due date", types.CreatePaymentRequest{StudentName: "s", Course: "c", Amount: 1, DueDate: "01/02/2024"}},
		{"refunded at creation", types.CreatePaymentRequest{StudentName: "s", Course: "c", Amount: 1, DueDate: "2024-01-01", Status: types.PaymentRefunded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	payments, err := store.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 4)
}

func TestPayments_MarkPaidDefaults(t *testing.T) {
	svc, _, _ := newTestPayments(t)

	payment, err := svc.MarkPaid(context.Background(), 2, types.MarkPaidRequest{})
	require.NoError(t, err)

	assert.Equal(t, types.PaymentPaid, payment.Status)
	require.NotNil(t, payment.Method)
	assert.Equal(t, "Manual Entry", *payment.Method)
	require.NotNil(t, payment.PaidDate)
	assert.Equal(t, "2024-03-18", *payment.PaidDate)
}

func TestPayments_MarkPaidOverdueWithMethod(t *testing.T) {
	svc, _, _ := newTestPayments(t)

	payment, err := svc.MarkPaid(context.Background(), 3, types.MarkPaidRequest{Method: "Cash", PaidDate: "2024-03-17"})
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPaid, payment.Status)
	assert.Equal(t, "Cash", *payment.Method)
	assert.Equal(t, "2024-03-17", *payment.PaidDate)
}

func TestPayments_MarkPaidAlreadyPaid(t *testing.T) {
	svc, store, _ := newTestPayments(t)
	ctx := context.Background()

	_, err := svc.MarkPaid(ctx, 1, types.MarkPaidRequest{Method: "Cash"})
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := store.GetPaymentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", *stored.PaidDate)
	assert.Equal(t, "Credit Card", *stored.Method)
}

func TestPayments_MarkPaidRefunded(t *testing.T) {
	svc, _, _ := newTestPayments(t)

	_, err := svc.MarkPaid(context.Background(), 4, types.MarkPaidRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPayments_MarkPaidNotFound(t *testing.T) {
	svc, _, _ := newTestPayments(t)

	_, err := svc.MarkPaid(context.Background(), 77, types.MarkPaidRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPayments_Refund(t *testing.T) {
	svc, _, _ := newTestPayments(t)
	ctx := context.Background()

	payment, err := svc.Refund(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentRefunded, payment.Status)
	assert.Equal(t, "Refunded on 2024-03-18", payment.Notes)

	_, err = svc.Refund(ctx, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPayments_RefundAppendsToExistingNotes(t *testing.T) {
	svc, _, _ := newTestPayments(t)
	ctx := context.Background()

	_, err := svc.MarkPaid(ctx, 3, types.MarkPaidRequest{})
	require.NoError(t, err)

	payment, err := svc.Refund(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Second notice sent\nRefunded on 2024-03-18", payment.Notes)
}

func TestPayments_RefundRequiresPaid(t *testing.T) {
	svc, store, _ := newTestPayments(t)
	ctx := context.Background()

	for _, id := range []int64{2, 3, 4} {
		_, err := svc.Refund(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidTransition, "payment %d", id)
	}

	stored, err := store.GetPaymentByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPending, stored.Status)

	_, err = svc.Refund(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPayments_Remind(t *testing.T) {
	svc, store, notifier := newTestPayments(t)
	ctx := context.Background()
	before, err := store.GetPaymentByID(ctx, 2)
	require.NoError(t, err)

	reminder, err := svc.Remind(ctx, 2, types.ReminderRequest{Message: "Fee due", SendEmail: true, SendSMS: true})
	require.NoError(t, err)

	assert.Equal(t, int64(2), reminder.PaymentID)
	assert.Equal(t, []string{"email", "sms"}, reminder.DeliveryMethods)
	_, err = uuid.Parse(reminder.ID)
	assert.NoError(t, err)
	require.Len(t, notifier.reminders, 1)
	assert.Equal(t, "Fee due", notifier.reminders[0].Message)

	after, err := store.GetPaymentByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPayments_RemindDefaultsToEmail(t *testing.T) {
	svc, _, _ := newTestPayments(t)

	reminder, err := svc.Remind(context.Background(), 3, types.ReminderRequest{Message: "Overdue"})
	require.NoError(t, err)
	assert.Equal(t, []string{"email"}, reminder.DeliveryMethods)
}

func TestPayments_RemindErrors(t *testing.T) {
	svc, _, notifier := newTestPayments(t)
	ctx := context.Background()

	_, err := svc.Remind(ctx, 2, types.ReminderRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Remind(ctx, 99, types.ReminderRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, notifier.reminders)

	notifier.err = errors.New("gateway down")
	_, err = svc.Remind(ctx, 2, types.ReminderRequest{Message: "hi"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}
