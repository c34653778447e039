package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/axis-pay/ledger-service/src/internal/domain"
	"github.com/axis-pay/ledger-service/src/internal/logger"
)

type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (r *LedgerStore) CreateAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	id,
	user_id,
	balance,
	version
) VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`

	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.UserID,
		account.Balance.String(),
		account.Version,
	).Scan(&createdAt, &updatedAt); err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	return account, nil
}

func (r *LedgerStore) GetAccount(ctx context.Context, accountID uuid.UUID) (domain.Account, error) {
	const query = `
SELECT id, user_id, balance, version, created_at, updated_at
FROM accounts
WHERE id = $1`

	var account domain.Account
	var balance string

	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID,
		&account.UserID,
		&balance,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("parse stored balance: %w", err)
	}
	account.Balance = parsed

	return account, nil
}

// ApplyEntry writes the new balance and appends the transaction in a single
// database transaction, guarded by the version check. Zero rows on the
// balance update means either the account vanished or the version moved;
// both leave the store untouched.
func (r *LedgerStore) ApplyEntry(ctx context.Context, accountID uuid.UUID, expectedVersion int64, newBalance decimal.Decimal, entry domain.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply entry: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const updateQuery = `
UPDATE accounts
SET balance = $3,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1 AND version = $2`

	result, err := tx.ExecContext(ctx, updateQuery, accountID, expectedVersion, newBalance.String())
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance rows: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
			return fmt.Errorf("check account existence: %w", err)
		}
		if !exists {
			return domain.ErrAccountNotFound
		}

		logger.Info("ledger store version conflict", logger.Fields{
			"accountId":       accountID.String(),
			"expectedVersion": expectedVersion,
		})
		return domain.ErrVersionConflict
	}

	const insertQuery = `
INSERT INTO transactions (
	id,
	account_id,
	type,
	amount,
	created_at
) VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(
		ctx,
		insertQuery,
		entry.ID,
		entry.AccountID,
		entry.Type,
		entry.Amount.String(),
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply entry: %w", err)
	}

	return nil
}

func (r *LedgerStore) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	const query = `
SELECT id, account_id, type, amount, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tran domain.Transaction
		var amount string
		if err := rows.Scan(&tran.ID, &tran.AccountID, &tran.Type, &amount, &tran.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount: %w", err)
		}
		tran.Amount = parsed

		transactions = append(transactions, tran)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}
