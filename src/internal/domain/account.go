package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the ledger's unit of ownership. Balance is only ever mutated
// through a versioned compare-and-update together with a transaction append,
// so it always equals the signed sum of the account's transactions. Version
// is the optimistic-concurrency token and moves forward on every mutation.
type Account struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
