package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"

	"blockevent/internal/status"
)

// apiError maps ledger errors to HTTP errors. Precondition violations
// are 400s with the ledger's message so callers see the exact kind.
func apiError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, status.ErrNoSuchEvent), errors.Is(err, status.ErrNoSuchTier):
		return apis.NewNotFoundError(err.Error(), err)
	case errors.Is(err, status.ErrUnauthorized):
		return apis.NewForbiddenError(err.Error(), err)
	case errors.Is(err, status.ErrReentrant):
		return apis.NewApiError(http.StatusConflict, err.Error(), err)
	case errors.Is(err, status.ErrPayoutUnavailable):
		return apis.NewApiError(http.StatusServiceUnavailable, err.Error(), err)
	default:
		return apis.NewBadRequestError(err.Error(), err)
	}
}
