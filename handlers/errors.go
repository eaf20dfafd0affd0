package handlers

import (
	"errors"
	"net/http"

	"campus-events/internal/status"

	"github.com/pocketbase/pocketbase/apis"
)

// apiError maps the service error taxonomy onto HTTP responses. Ownership
// mismatches surface as not-found so ticket existence never leaks.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrEventNotFound),
		errors.Is(err, status.ErrTicketNotFound):
		return apis.NewNotFoundError(err.Error(), err)
	case errors.Is(err, status.ErrNotOwner),
		errors.Is(err, status.ErrNotAdmin):
		return apis.NewForbiddenError(err.Error(), err)
	case errors.Is(err, status.ErrCapacityExceeded):
		return apis.NewApiError(http.StatusConflict, err.Error(), err)
	default:
		// Invalid state transitions, validation failures and the rest are
		// caller mistakes.
		return apis.NewBadRequestError(err.Error(), err)
	}
}
