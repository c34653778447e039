package controller

import (
	"errors"
	"net/http"

	"github.com/axis-pay/ledger-service/src/internal/domain"
)

// statusForError maps the service error taxonomy onto HTTP statuses.
// Insufficient balance is a conflict: the request was well-formed and
// authorized but lost against the current ledger state.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAmountMustBePositive):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAccountOwner),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientBalance), errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLedgerBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
