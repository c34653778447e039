package services

import (
	"github.com/google/uuid"

	"github.com/axis-pay/ledger-service/src/internal/domain"
)

// authorizeOwner is the ownership guard. It is called after existence is
// confirmed, so a request for an unknown account reports not-found rather
// than unauthorized.
func authorizeOwner(account domain.Account, requesterID uuid.UUID) error {
	if account.UserID != requesterID {
		return domain.ErrNotAccountOwner
	}
	return nil
}
