package errors

import (
	"errors"
	"net/http"
)

// MapToHTTPStatus translates domain sentinel errors to HTTP status codes.
// AlreadyResolved maps to 409: it is an expected race outcome, not a fault.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyResolved):
		return http.StatusConflict
	case errors.Is(err, ErrDeliveryFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
