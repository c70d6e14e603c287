// Package notify delivers payment reminders.
//
// There is no mail or SMS gateway behind the portal yet: LogNotifier
// simulates delivery by waiting a fixed delay and writing a structured log
// line per channel.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/aanand-mishra/edu-admin-api/internal/types"
)

// LogNotifier logs reminders after a simulated delivery delay.
type LogNotifier struct {
	log   *slog.Logger
	delay time.Duration
}

// NewLogNotifier returns a notifier writing to log. A zero delay delivers
// immediately.
func NewLogNotifier(log *slog.Logger, delay time.Duration) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log, delay: delay}
}

// Notify waits for the configured delay, or until ctx is done, then logs
// one line per delivery method.
func (n *LogNotifier) Notify(ctx context.Context, reminder types.Reminder, payment types.Payment) error {
	if n.delay > 0 {
		timer := time.NewTimer(n.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	for _, method := range reminder.DeliveryMethods {
		n.log.Info("payment reminder sent",
			slog.String("reminder_id", reminder.ID),
			slog.Int64("payment_id", payment.ID),
			slog.String("student", payment.StudentName),
			slog.String("course", payment.Course),
			slog.String("method", method),
			slog.String("message", reminder.Message),
		)
	}
	return nil
}
