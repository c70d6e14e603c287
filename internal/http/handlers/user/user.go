// Package user contains the HTTP handlers of the /api/admin user routes.
//
// Every handler is built by a factory that closes over the user service:
//
//	router.HandleFunc("POST /api/admin/create-user", user.Create(users))
//
// Create(users) runs once at startup; the returned func runs per request.
package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/edu-admin-api/internal/http/handlers"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/request"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/response"
)

// Service is the part of admin.Users the handlers need.
type Service interface {
	List(ctx context.Context) ([]types.PublicUser, error)
	Search(ctx context.Context, query string) ([]types.PublicUser, error)
	View(ctx context.Context, id int64) (types.PublicUser, error)
	Create(ctx context.Context, req types.CreateUserRequest) (types.PublicUser, error)
	Edit(ctx context.Context, id int64, req types.EditUserRequest) (types.PublicUser, error)
	Delete(ctx context.Context, id int64) error
}

// Result is the body of create and edit responses.
type Result struct {
	Message string           `json:"message"`
	User    types.PublicUser `json:"user"`
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /api/admin/users
// ─────────────────────────────────────────────────────────────────────────────
func List(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing users")

		users, err := svc.List(r.Context())
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, users)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search handles GET /api/admin/search-users?query=
// An absent or blank query returns every user.
// ─────────────────────────────────────────────────────────────────────────────
func Search(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		slog.Info("searching users", slog.String("query", query))

		users, err := svc.Search(r.Context(), query)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, users)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// View handles GET /api/admin/view-user/{id}
//
// Error responses:
//
//	400 Bad Request: id is not a valid integer
//	404 Not Found: no user with that id
// ─────────────────────────────────────────────────────────────────────────────
func View(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("viewing user", slog.Int64("id", id))

		user, err := svc.View(r.Context(), id)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, user)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /api/admin/create-user
//
// Request body (JSON):
//
//	{ "username": "ann", "email": "ann@x.com", "password": "p", "role": "Parent" }
//
// Success response (201 Created):
//
//	{ "message": "User created successfully", "user": { "id": 5, ... } }
//
// Error responses:
//
//	400 Bad Request: empty body, malformed JSON, or missing fields
//	409 Conflict: username or email already taken
// ─────────────────────────────────────────────────────────────────────────────
func Create(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a user")

		var req types.CreateUserRequest
		if err := request.DecodeJSON(r, &req, false); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		user, err := svc.Create(r.Context(), req)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		slog.Info("user created", slog.Int64("id", user.ID))
		response.WriteJSON(w, http.StatusCreated, Result{
			Message: "User created successfully",
			User:    user,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Edit handles PUT /api/admin/edit-user/{id}
// The password is only replaced when the body carries one.
//
// Error responses:
//
//	400 Bad Request: invalid id, empty body, or missing fields
//	404 Not Found: no user with that id
//	409 Conflict: username or email held by another user
// ─────────────────────────────────────────────────────────────────────────────
func Edit(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("editing user", slog.Int64("id", id))

		var req types.EditUserRequest
		if err := request.DecodeJSON(r, &req, false); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		user, err := svc.Edit(r.Context(), id, req)
		if err != nil {
			handlers.WriteError(w, err)
			return
		}

		slog.Info("user updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, Result{
			Message: "User updated successfully",
			User:    user,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/admin/delete-user/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		slog.Info("deleting user", slog.Int64("id", id))

		if err := svc.Delete(r.Context(), id); err != nil {
			handlers.WriteError(w, err)
			return
		}

		slog.Info("user deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: "User deleted successfully"})
	}
}
