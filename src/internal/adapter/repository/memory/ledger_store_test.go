package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/axis-pay/ledger-service/src/internal/domain"
)

func TestLedgerStoreApplyEntryVersionConflict(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	account := domain.Account{ID: uuid.New(), UserID: uuid.New(), Balance: decimal.Zero, Version: 0}
	if _, err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	entry := domain.Transaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Type:      domain.TransactionTypeDeposit,
		Amount:    decimal.NewFromInt(10),
	}
	if err := store.ApplyEntry(ctx, account.ID, 0, decimal.NewFromInt(10), entry); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	// Stale version: the account moved to version 1 above.
	stale := domain.Transaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Type:      domain.TransactionTypeDeposit,
		Amount:    decimal.NewFromInt(5),
	}
	err := store.ApplyEntry(ctx, account.ID, 0, decimal.NewFromInt(15), stale)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	got, err := store.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("conflicting apply mutated balance: %s", got.Balance)
	}

	transactions, err := store.ListTransactions(ctx, account.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("conflicting apply appended a transaction, got %d records", len(transactions))
	}
}

func TestLedgerStoreApplyEntryUnknownAccount(t *testing.T) {
	store := NewLedgerStore()

	err := store.ApplyEntry(context.Background(), uuid.New(), 0, decimal.NewFromInt(1), domain.Transaction{ID: uuid.New()})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
