// Package payment contains the HTTP handlers of the /api/payments routes.
package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/edu-admin-api/internal/http/handlers"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/request"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/response"
)

// Service is the part of admin.Payments the handlers need.
type Service interface {
	List(ctx context.Context) ([]types.Payment, error)
	View(ctx context.Context, id int64) (types.Payment, error)
	Create(ctx context.Context, req types.CreatePaymentRequest) (types.Payment, error)
	MarkPaid(ctx context.Context, id int64, req types.MarkPaidRequest) (types.Payment, error)
	Refund(ctx context.Context, id int64) (types.Payment, error)
	Remind(ctx context.Context, id int64, req types.ReminderRequest) (types.Reminder, error)
}

// Result is the body of every payment mutation.
type Result struct {
	Message string        `json:"message"`
	Payment types.Payment `json:"payment"`
}

// ReminderResult is the body of a reminder response.
type ReminderResult struct {
	Message string `json:"message"`
	types.Reminder
}

// List handles GET /api/payments.
func List(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing payments")

		payments, err := svc.List(r.Context())
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, payments)
	}
}

// View handles GET /api/payments/{id}.
func View(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("viewing payment", slog.Int64("id", id))

		payment, err := svc.View(r.Context(), id)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, payment)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /api/payments
//
// Request body (JSON):
//
//	{ "studentName": "Bob", "course": "Physics", "amount": 120.5, "dueDate": "2024-05-01" }
//
// Success response (201 Created):
//
//	{ "message": "Payment created successfully", "payment": { "id": 5, "status": "Pending", ... } }
// ─────────────────────────────────────────────────────────────────────────────
func Create(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a payment")

		var req types.CreatePaymentRequest
		if err := request.DecodeJSON(r, &req, false); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		payment, err := svc.Create(r.Context(), req)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		slog.Info("payment created", slog.Int64("id", payment.ID))
		response.WriteJSON(w, http.StatusCreated, Result{
			Message: "Payment created successfully",
			Payment: payment,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// MarkPaid handles POST /api/payments/{id}/mark-paid
// The body is optional: { "method": "Cash", "paidDate": "2024-03-18" }
//
// Error responses:
//
//	400 Bad Request: invalid id, malformed body, or payment already paid/refunded
//	404 Not Found: no payment with that id
// ─────────────────────────────────────────────────────────────────────────────
func MarkPaid(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("marking payment as paid", slog.Int64("id", id))

		var req types.MarkPaidRequest
		if err := request.DecodeJSON(r, &req, true); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		payment, err := svc.MarkPaid(r.Context(), id, req)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, Result{
			Message: "Payment marked as paid",
			Payment: payment,
		})
	}
}

// Refund handles POST /api/payments/{id}/refund. Only Paid payments can be
// refunded.
func Refund(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("refunding payment", slog.Int64("id", id))

		payment, err := svc.Refund(r.Context(), id)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, Result{
			Message: "Payment refunded successfully",
			Payment: payment,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Remind handles POST /api/payments/{id}/reminder
//
// Request body (JSON):
//
//	{ "message": "Your fee is due", "sendEmail": true, "sendSMS": false }
//
// Success response (200 OK):
//
//	{ "message": "Reminder sent successfully", "reminderId": "...", "paymentId": 2, "deliveryMethods": ["email"] }
// ─────────────────────────────────────────────────────────────────────────────
func Remind(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("sending payment reminder", slog.Int64("id", id))

		var req types.ReminderRequest
		if err := request.DecodeJSON(r, &req, false); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		reminder, err := svc.Remind(r.Context(), id, req)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, ReminderResult{
			Message:  "Reminder sent successfully",
			Reminder: reminder,
		})
	}
}
