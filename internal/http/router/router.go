// Package router wires every handler factory to its METHOD+PATTERN route.
//
// Route table:
//
//	GET    /health
//	GET    /api/meta
//	GET    /api/meta/autocomplete?query=
//	GET    /api/admin/users                  (token)
//	GET    /api/admin/search-users?query=    (token)
//	GET    /api/admin/view-user/{id}         (token)
//	POST   /api/admin/create-user            (token)
//	PUT    /api/admin/edit-user/{id}         (token)
//	DELETE /api/admin/delete-user/{id}       (token)
//	GET    /api/payments                     (token)
//	POST   /api/payments                     (token)
//	GET    /api/payments/{id}                (token)
//	POST   /api/payments/{id}/mark-paid      (token)
//	POST   /api/payments/{id}/refund         (token)
//	POST   /api/payments/{id}/reminder       (token)
package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/edu-admin-api/internal/auth"
	"github.com/aanand-mishra/edu-admin-api/internal/http/handlers"
	"github.com/aanand-mishra/edu-admin-api/internal/http/handlers/meta"
	"github.com/aanand-mishra/edu-admin-api/internal/http/handlers/payment"
	"github.com/aanand-mishra/edu-admin-api/internal/http/handlers/user"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/response"
)

// Deps are the services the routes are built from. A nil Tokens leaves
// the admin and payment routes open.
type Deps struct {
	Users    user.Service
	Payments payment.Service
	Tokens   *auth.TokenManager
}

// New returns the application's root handler.
func New(deps Deps) http.Handler {
	router := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler { return h }
	if deps.Tokens != nil {
		mw := auth.Middleware(deps.Tokens)
		protect = func(h http.HandlerFunc) http.Handler { return mw(h) }
	}

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	})

	catalogue := meta.Catalogue()
	router.HandleFunc("GET /api/meta", meta.Get(catalogue))
	router.HandleFunc("GET /api/meta/autocomplete", meta.Autocomplete(catalogue))

	router.Handle("GET /api/admin/users", protect(user.List(deps.Users)))
	router.Handle("GET /api/admin/search-users", protect(user.Search(deps.Users)))
	router.Handle("GET /api/admin/view-user/{id}", protect(user.View(deps.Users)))
	router.Handle("POST /api/admin/create-user", protect(user.Create(deps.Users)))
	router.Handle("PUT /api/admin/edit-user/{id}", protect(user.Edit(deps.Users)))
	router.Handle("DELETE /api/admin/delete-user/{id}", protect(user.Delete(deps.Users)))

	router.Handle("GET /api/payments", protect(payment.List(deps.Payments)))
	router.Handle("POST /api/payments", protect(payment.Create(deps.Payments)))
	router.Handle("GET /api/payments/{id}", protect(payment.View(deps.Payments)))
	router.Handle("POST /api/payments/{id}/mark-paid", protect(payment.MarkPaid(deps.Payments)))
	router.Handle("POST /api/payments/{id}/refund", protect(payment.Refund(deps.Payments)))
	router.Handle("POST /api/payments/{id}/reminder", protect(payment.Remind(deps.Payments)))

	return recoverer(router)
}

// recoverer turns a panicking handler into a generic 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("handler panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec))
				response.WriteJSON(w, http.StatusInternalServerError,
					response.GeneralError(errors.New(handlers.InternalMessage)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
