package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/axis-pay/ledger-service/src/internal/domain"
)

// LedgerStore keeps accounts and their transactions in process memory. It
// honors the same versioned compare-and-update contract as the Postgres
// store: ApplyEntry checks the version and applies balance plus transaction
// inside one critical section, so a failed check mutates nothing.
type LedgerStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]domain.Account
	entries  map[uuid.UUID][]domain.Transaction
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts: make(map[uuid.UUID]domain.Account),
		entries:  make(map[uuid.UUID][]domain.Transaction),
	}
}

func (s *LedgerStore) CreateAccount(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = account
	return account, nil
}

func (s *LedgerStore) GetAccount(_ context.Context, accountID uuid.UUID) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (s *LedgerStore) ApplyEntry(ctx context.Context, accountID uuid.UUID, expectedVersion int64, newBalance decimal.Decimal, entry domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if account.Version != expectedVersion {
		return domain.ErrVersionConflict
	}

	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = time.Now().UTC()

	s.accounts[accountID] = account
	s.entries[accountID] = append(s.entries[accountID], entry)

	return nil
}

func (s *LedgerStore) ListTransactions(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[accountID]
	out := make([]domain.Transaction, len(stored))
	copy(out, stored)

	return out, nil
}
