package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/adapter/repository/memory"
	"github.com/axis-pay/ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/axis-pay/ledger-service/src/internal/domain"
	"github.com/axis-pay/ledger-service/src/internal/usecase/services"
)

type ledgerFixture struct {
	svc     *services.AccountService
	store   *memory.LedgerStore
	users   *memory.UserRepository
	ownerID uuid.UUID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store := memory.NewLedgerStore()
	users := memory.NewUserRepository()

	owner := domain.User{
		ID:             uuid.New(),
		Email:          "owner@axis.pay",
		HashedPassword: "irrelevant",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if _, err := users.Create(context.Background(), owner); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	return &ledgerFixture{
		svc:     services.NewAccountService(store, users),
		store:   store,
		users:   users,
		ownerID: owner.ID,
	}
}

func (f *ledgerFixture) openAccount(t *testing.T) uuid.UUID {
	t.Helper()

	resp, err := f.svc.OpenAccount(context.Background(), f.ownerID)
	if err != nil {
		t.Fatalf("open account: %v", err)
	}

	accountID, err := uuid.Parse(resp.Data.AccountID)
	if err != nil {
		t.Fatalf("parse opened account id: %v", err)
	}
	return accountID
}

func (f *ledgerFixture) balance(t *testing.T, accountID uuid.UUID) string {
	t.Helper()

	resp, err := f.svc.GetBalance(context.Background(), accountID, f.ownerID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	return resp.Data.Balance
}

func (f *ledgerFixture) transactions(t *testing.T, accountID uuid.UUID) []domain.Transaction {
	t.Helper()

	transactions, err := f.store.ListTransactions(context.Background(), accountID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return transactions
}

func TestAccountServiceOpenAccountUnknownOwner(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.OpenAccount(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountServiceDepositRejectsNonPositiveAmounts(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := f.svc.Deposit(context.Background(), accountID, f.ownerID, models.TransactionRequest{Amount: amount})
		if !errors.Is(err, domain.ErrAmountMustBePositive) {
			t.Fatalf("amount %s: expected ErrAmountMustBePositive, got %v", amount, err)
		}
	}

	if got := len(f.transactions(t, accountID)); got != 0 {
		t.Fatalf("expected no transactions after rejected deposits, got %d", got)
	}
}

func TestAccountServiceDepositAcceptsSmallestUnit(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	resp, err := f.svc.Deposit(context.Background(), accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.RequireFromString("0.01"),
	})
	if err != nil {
		t.Fatalf("deposit 0.01: %v", err)
	}
	if resp.Data.CurrentBalance != "0.01" {
		t.Fatalf("expected balance 0.01, got %s", resp.Data.CurrentBalance)
	}
}

func TestAccountServiceDepositWithdrawScenario(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)
	ctx := context.Background()

	deposit, err := f.svc.Deposit(ctx, accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.RequireFromString("150.75"),
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if deposit.Data.Type != string(domain.TransactionTypeDeposit) {
		t.Fatalf("expected DEPOSIT transaction, got %s", deposit.Data.Type)
	}
	if got := f.balance(t, accountID); got != "150.75" {
		t.Fatalf("expected balance 150.75, got %s", got)
	}
	if got := len(f.transactions(t, accountID)); got != 1 {
		t.Fatalf("expected 1 transaction, got %d", got)
	}

	_, err = f.svc.Withdraw(ctx, accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.RequireFromString("200.00"),
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := f.balance(t, accountID); got != "150.75" {
		t.Fatalf("balance changed after failed withdrawal: %s", got)
	}
	if got := len(f.transactions(t, accountID)); got != 1 {
		t.Fatalf("failed withdrawal created a transaction, got %d records", got)
	}

	withdrawal, err := f.svc.Withdraw(ctx, accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.RequireFromString("50.25"),
	})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawal.Data.CurrentBalance != "100.50" {
		t.Fatalf("expected balance 100.50, got %s", withdrawal.Data.CurrentBalance)
	}

	transactions := f.transactions(t, accountID)
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if transactions[0].Type != domain.TransactionTypeDeposit || transactions[1].Type != domain.TransactionTypeWithdraw {
		t.Fatalf("transactions out of creation order: %s, %s", transactions[0].Type, transactions[1].Type)
	}
}

func TestAccountServiceOwnership(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)
	ctx := context.Background()

	stranger := domain.User{ID: uuid.New(), Email: "stranger@axis.pay"}
	if _, err := f.users.Create(ctx, stranger); err != nil {
		t.Fatalf("seed stranger: %v", err)
	}

	amount := models.TransactionRequest{Amount: decimal.NewFromInt(10)}

	if _, err := f.svc.Deposit(ctx, accountID, stranger.ID, amount); !errors.Is(err, domain.ErrNotAccountOwner) {
		t.Fatalf("deposit: expected ErrNotAccountOwner, got %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, accountID, stranger.ID, amount); !errors.Is(err, domain.ErrNotAccountOwner) {
		t.Fatalf("withdraw: expected ErrNotAccountOwner, got %v", err)
	}
	if _, err := f.svc.GetBalance(ctx, accountID, stranger.ID); !errors.Is(err, domain.ErrNotAccountOwner) {
		t.Fatalf("get balance: expected ErrNotAccountOwner, got %v", err)
	}
	if _, err := f.svc.Statement(ctx, accountID, stranger.ID); !errors.Is(err, domain.ErrNotAccountOwner) {
		t.Fatalf("statement: expected ErrNotAccountOwner, got %v", err)
	}
}

func TestAccountServiceUnknownAccountReportsNotFound(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	unknown := uuid.New()
	amount := models.TransactionRequest{Amount: decimal.NewFromInt(10)}

	if _, err := f.svc.Deposit(ctx, unknown, f.ownerID, amount); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("deposit: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := f.svc.Withdraw(ctx, unknown, f.ownerID, amount); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("withdraw: expected ErrAccountNotFound, got %v", err)
	}
	if _, err := f.svc.GetBalance(ctx, unknown, f.ownerID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("get balance: expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountServiceGetBalanceIdempotent(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	if _, err := f.svc.Deposit(context.Background(), accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.RequireFromString("42.42"),
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	first := f.balance(t, accountID)
	second := f.balance(t, accountID)
	if first != second {
		t.Fatalf("balance reads diverged without a mutation: %s vs %s", first, second)
	}
}

func TestAccountServiceCancelledContextLeavesNoTrace(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Deposit(cancelled, accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.NewFromInt(10),
	})
	if err == nil {
		t.Fatal("expected error from deposit with cancelled context")
	}

	if got := f.balance(t, accountID); got != "0.00" {
		t.Fatalf("cancelled deposit moved the balance: %s", got)
	}
	if got := len(f.transactions(t, accountID)); got != 0 {
		t.Fatalf("cancelled deposit left %d transactions behind", got)
	}
}

func TestAccountServiceConcurrentDeposits(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	const workers = 100
	amount := decimal.NewFromInt(5)

	g, ctx := errgroup.WithContext(context.Background())
	for range workers {
		g.Go(func() error {
			_, err := f.svc.Deposit(ctx, accountID, f.ownerID, models.TransactionRequest{Amount: amount})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent deposits: %v", err)
	}

	if got := f.balance(t, accountID); got != "500.00" {
		t.Fatalf("expected balance 500.00 after %d deposits of 5, got %s", workers, got)
	}
	if got := len(f.transactions(t, accountID)); got != workers {
		t.Fatalf("expected %d transactions, got %d", workers, got)
	}
}

func TestAccountServiceBalanceMatchesLedgerSum(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)
	ctx := context.Background()

	if _, err := f.svc.Deposit(ctx, accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.NewFromInt(1000),
	}); err != nil {
		t.Fatalf("seed deposit: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range 100 {
		g.Go(func() error {
			req := models.TransactionRequest{Amount: decimal.NewFromInt(3)}
			if i%2 == 0 {
				_, err := f.svc.Deposit(gctx, accountID, f.ownerID, req)
				return err
			}
			_, err := f.svc.Withdraw(gctx, accountID, f.ownerID, req)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent mixed traffic: %v", err)
	}

	account, err := f.store.GetAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}

	sum := decimal.Zero
	for _, tran := range f.transactions(t, accountID) {
		sum = sum.Add(tran.SignedAmount())
	}

	if !account.Balance.Equal(sum) {
		t.Fatalf("balance %s diverged from ledger sum %s", account.Balance, sum)
	}
	if !account.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance 1000 after balanced traffic, got %s", account.Balance)
	}
}

// conflictingStore fails ApplyEntry with a version conflict a fixed number of
// times before delegating, standing in for a competing writer on a shared
// database.
type conflictingStore struct {
	repo_interfaces.LedgerStore
	conflicts int32
}

func (s *conflictingStore) ApplyEntry(ctx context.Context, accountID uuid.UUID, expectedVersion int64, newBalance decimal.Decimal, entry domain.Transaction) error {
	if atomic.AddInt32(&s.conflicts, -1) >= 0 {
		return domain.ErrVersionConflict
	}
	return s.LedgerStore.ApplyEntry(ctx, accountID, expectedVersion, newBalance, entry)
}

func TestAccountServiceRetriesVersionConflicts(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	svc := services.NewAccountService(&conflictingStore{LedgerStore: f.store, conflicts: 2}, f.users)

	resp, err := svc.Deposit(context.Background(), accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.NewFromInt(7),
	})
	if err != nil {
		t.Fatalf("deposit with transient conflicts: %v", err)
	}
	if resp.Data.CurrentBalance != "7.00" {
		t.Fatalf("expected balance 7.00, got %s", resp.Data.CurrentBalance)
	}
}

func TestAccountServiceSurfacesExhaustedRetries(t *testing.T) {
	f := newLedgerFixture(t)
	accountID := f.openAccount(t)

	svc := services.NewAccountService(&conflictingStore{LedgerStore: f.store, conflicts: 1000}, f.users)

	_, err := svc.Deposit(context.Background(), accountID, f.ownerID, models.TransactionRequest{
		Amount: decimal.NewFromInt(7),
	})
	if !errors.Is(err, domain.ErrLedgerBusy) {
		t.Fatalf("expected ErrLedgerBusy, got %v", err)
	}
	if got := len(f.transactions(t, accountID)); got != 0 {
		t.Fatalf("exhausted retries left %d transactions behind", got)
	}
}
