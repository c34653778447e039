package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/axis-pay/ledger-service/src/internal/commons"
	"github.com/axis-pay/ledger-service/src/internal/domain"
	"github.com/axis-pay/ledger-service/src/internal/logger"
)

// applyAttempts bounds the compare-and-update retry loop. The per-account
// lock keeps in-process writers serialized, so conflicts here only come from
// other processes sharing the store.
const applyAttempts = 5

type AccountService struct {
	ledger   repo_interfaces.LedgerStore
	userRepo repo_interfaces.UserRepository
	locks    *accountLocks
}

func NewAccountService(
	ledger repo_interfaces.LedgerStore,
	userRepo repo_interfaces.UserRepository,
) *AccountService {
	return &AccountService{
		ledger:   ledger,
		userRepo: userRepo,
		locks:    newAccountLocks(),
	}
}

func (s *AccountService) OpenAccount(ctx context.Context, ownerID uuid.UUID) (commons.Response[models.OpenAccountResponse], error) {
	logger.Info("account service open account request", logger.Fields{
		"ownerId": ownerID.String(),
	})

	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.OpenAccountResponse]("User not found"), err
		}
		logger.Error("account service open account owner lookup failed", err, logger.Fields{
			"ownerId": ownerID.String(),
		})
		return commons.ErrorResponse[models.OpenAccountResponse]("failed to open account", "Unable to open account right now"), err
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:        uuid.New(),
		UserID:    ownerID,
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.ledger.CreateAccount(ctx, account)
	if err != nil {
		logger.Error("account service open account store failed", err, logger.Fields{
			"ownerId": ownerID.String(),
		})
		return commons.ErrorResponse[models.OpenAccountResponse]("failed to open account", "Unable to open account right now"), err
	}

	logger.Info("account service open account success", logger.Fields{
		"accountId": created.ID.String(),
		"ownerId":   ownerID.String(),
	})

	return commons.SuccessResponse("account opened successfully", models.OpenAccountResponse{
		AccountID: created.ID.String(),
	}), nil
}

func (s *AccountService) Deposit(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("account service deposit request", logger.Fields{
		"accountId":   accountID.String(),
		"requesterId": requesterID.String(),
		"amount":      req.Amount.String(),
	})

	entry, newBalance, err := s.postEntry(ctx, accountID, requesterID, req.Amount, domain.TransactionTypeDeposit)
	if err != nil {
		return errorTransactionResponse(err), err
	}

	logger.Info("account service deposit success", logger.Fields{
		"accountId":     accountID.String(),
		"transactionId": entry.ID.String(),
	})

	return commons.SuccessResponse("deposit applied successfully", transactionResponse(entry, newBalance)), nil
}

func (s *AccountService) Withdraw(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("account service withdraw request", logger.Fields{
		"accountId":   accountID.String(),
		"requesterId": requesterID.String(),
		"amount":      req.Amount.String(),
	})

	entry, newBalance, err := s.postEntry(ctx, accountID, requesterID, req.Amount, domain.TransactionTypeWithdraw)
	if err != nil {
		return errorTransactionResponse(err), err
	}

	logger.Info("account service withdraw success", logger.Fields{
		"accountId":     accountID.String(),
		"transactionId": entry.ID.String(),
	})

	return commons.SuccessResponse("withdrawal applied successfully", transactionResponse(entry, newBalance)), nil
}

// postEntry is the invariant-preserving read-modify-write. The amount check
// runs before any lookup; existence before ownership; sufficiency against the
// balance read in the same attempt that writes it. The per-account lock plus
// the store's version check make lost updates impossible, and the store
// applies balance and transaction as one atomic unit.
func (s *AccountService) postEntry(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID, amount decimal.Decimal, tranType domain.TransactionType) (domain.Transaction, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, decimal.Zero, domain.ErrAmountMustBePositive
	}

	release := s.locks.acquire(accountID)
	defer release()

	for attempt := 0; attempt < applyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Transaction{}, decimal.Zero, err
		}

		account, err := s.ledger.GetAccount(ctx, accountID)
		if err != nil {
			return domain.Transaction{}, decimal.Zero, err
		}

		if err := authorizeOwner(account, requesterID); err != nil {
			return domain.Transaction{}, decimal.Zero, err
		}

		if tranType == domain.TransactionTypeWithdraw && account.Balance.LessThan(amount) {
			return domain.Transaction{}, decimal.Zero, domain.ErrInsufficientBalance
		}

		newBalance := account.Balance.Add(amount)
		if tranType == domain.TransactionTypeWithdraw {
			newBalance = account.Balance.Sub(amount)
		}

		entry := domain.Transaction{
			ID:        uuid.New(),
			AccountID: accountID,
			Type:      tranType,
			Amount:    amount,
			CreatedAt: time.Now().UTC(),
		}

		err = s.ledger.ApplyEntry(ctx, accountID, account.Version, newBalance, entry)
		if errors.Is(err, domain.ErrVersionConflict) {
			logger.Info("account service entry version conflict, retrying", logger.Fields{
				"accountId": accountID.String(),
				"attempt":   attempt + 1,
			})
			continue
		}
		if err != nil {
			return domain.Transaction{}, decimal.Zero, fmt.Errorf("apply %s entry: %w", tranType, err)
		}

		return entry, newBalance, nil
	}

	logger.Error("account service entry retries exhausted", domain.ErrLedgerBusy, logger.Fields{
		"accountId": accountID.String(),
	})
	return domain.Transaction{}, decimal.Zero, domain.ErrLedgerBusy
}

func (s *AccountService) GetBalance(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID) (commons.Response[models.BalanceResponse], error) {
	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.BalanceResponse]("Account not found"), err
		}
		logger.Error("account service get balance failed", err, logger.Fields{
			"accountId": accountID.String(),
		})
		return commons.ErrorResponse[models.BalanceResponse]("failed to get balance", "Unable to fetch balance right now"), err
	}

	if err := authorizeOwner(account, requesterID); err != nil {
		return commons.ErrorResponse[models.BalanceResponse]("unauthorized", err.Error()), err
	}

	return commons.SuccessResponse("balance fetched successfully", models.BalanceResponse{
		AccountID: account.ID.String(),
		Balance:   account.Balance.StringFixed(2),
	}), nil
}

func (s *AccountService) FindAccount(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID) (commons.Response[models.AccountResponse], error) {
	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service find account failed", err, logger.Fields{
			"accountId": accountID.String(),
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to find account", "Unable to fetch account right now"), err
	}

	if err := authorizeOwner(account, requesterID); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("unauthorized", err.Error()), err
	}

	return commons.SuccessResponse("account fetched successfully", models.AccountResponse{
		ID:        account.ID.String(),
		UserID:    account.UserID.String(),
		Balance:   account.Balance.StringFixed(2),
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}), nil
}

func (s *AccountService) Statement(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID) (commons.Response[models.StatementResponse], error) {
	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.StatementResponse]("Account not found"), err
		}
		logger.Error("account service statement failed", err, logger.Fields{
			"accountId": accountID.String(),
		})
		return commons.ErrorResponse[models.StatementResponse]("failed to get statement", "Unable to fetch statement right now"), err
	}

	if err := authorizeOwner(account, requesterID); err != nil {
		return commons.ErrorResponse[models.StatementResponse]("unauthorized", err.Error()), err
	}

	transactions, err := s.ledger.ListTransactions(ctx, accountID)
	if err != nil {
		logger.Error("account service statement listing failed", err, logger.Fields{
			"accountId": accountID.String(),
		})
		return commons.ErrorResponse[models.StatementResponse]("failed to get statement", "Unable to fetch statement right now"), err
	}

	records := make([]models.TransactionRecord, 0, len(transactions))
	for _, tran := range transactions {
		records = append(records, models.TransactionRecord{
			ID:        tran.ID.String(),
			Type:      string(tran.Type),
			Amount:    tran.Amount.StringFixed(2),
			Timestamp: tran.CreatedAt.Format(time.RFC3339),
		})
	}

	return commons.SuccessResponse("statement fetched successfully", models.StatementResponse{
		AccountID:    account.ID.String(),
		Transactions: records,
	}), nil
}

func transactionResponse(entry domain.Transaction, newBalance decimal.Decimal) models.TransactionResponse {
	return models.TransactionResponse{
		ID:             entry.ID.String(),
		AccountID:      entry.AccountID.String(),
		Type:           string(entry.Type),
		Amount:         entry.Amount.StringFixed(2),
		Timestamp:      entry.CreatedAt.Format(time.RFC3339),
		CurrentBalance: newBalance.StringFixed(2),
	}
}

func errorTransactionResponse(err error) commons.Response[models.TransactionResponse] {
	switch {
	case errors.Is(err, domain.ErrAmountMustBePositive):
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return commons.ErrorResponse[models.TransactionResponse]("Account not found")
	case errors.Is(err, domain.ErrNotAccountOwner):
		return commons.ErrorResponse[models.TransactionResponse]("unauthorized", err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		return commons.ErrorResponse[models.TransactionResponse]("Insufficient balance", err.Error())
	case errors.Is(err, domain.ErrLedgerBusy):
		return commons.ErrorResponse[models.TransactionResponse]("ledger busy", err.Error())
	default:
		return commons.ErrorResponse[models.TransactionResponse]("failed to process transaction", "Unable to process transaction right now")
	}
}
