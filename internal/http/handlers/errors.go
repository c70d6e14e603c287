// Package handlers holds what the user, payment and meta handler packages
// share: turning a service error into an HTTP response.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/edu-admin-api/internal/admin"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// InternalMessage is all a client ever sees of an unexpected failure.
const InternalMessage = "internal server error"

// WriteError maps an error from the admin service to its HTTP status:
//
//	validator.ValidationErrors                      → 400, field messages
//	admin.ErrValidation, admin.ErrInvalidTransition → 400
//	admin.ErrNotFound                               → 404
//	admin.ErrConflict                               → 409
//	anything else                                   → 500
//
// Internal errors are logged and replaced with InternalMessage.
func WriteError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
	case errors.Is(err, admin.ErrValidation), errors.Is(err, admin.ErrInvalidTransition):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, admin.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, admin.ErrConflict):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		slog.Error("internal error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError,
			response.GeneralError(errors.New(InternalMessage)))
	}
}
