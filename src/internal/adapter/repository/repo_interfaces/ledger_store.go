package repo_interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/axis-pay/ledger-service/src/internal/domain"
)

// LedgerStore is the durable keyed storage for accounts and their
// transactions. ApplyEntry is the conditional-update primitive: it persists
// the new balance and appends the transaction as one atomic unit, and fails
// with domain.ErrVersionConflict when expectedVersion no longer matches the
// stored account. On any failure neither write lands.
type LedgerStore interface {
	CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (domain.Account, error)
	ApplyEntry(ctx context.Context, accountID uuid.UUID, expectedVersion int64, newBalance decimal.Decimal, entry domain.Transaction) error
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}
