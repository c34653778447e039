package service_interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/commons"
)

type AccountService interface {
	OpenAccount(ctx context.Context, ownerID uuid.UUID) (commons.Response[models.OpenAccountResponse], error)
	Deposit(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error)
	GetBalance(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID) (commons.Response[models.BalanceResponse], error)
	FindAccount(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID) (commons.Response[models.AccountResponse], error)
	Statement(ctx context.Context, accountID uuid.UUID, requesterID uuid.UUID) (commons.Response[models.StatementResponse], error)
}
