package models

import (
	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransactionResponse struct {
	ID             string `json:"id"`
	AccountID      string `json:"accountId"`
	Type           string `json:"type"`
	Amount         string `json:"amount"`
	Timestamp      string `json:"timestamp"`
	CurrentBalance string `json:"currentBalance"`
}

type OpenAccountResponse struct {
	AccountID string `json:"accountId"`
}

type BalanceResponse struct {
	AccountID string `json:"accountId"`
	Balance   string `json:"balance"`
}

type AccountResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type TransactionRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Timestamp string `json:"timestamp"`
}

type StatementResponse struct {
	AccountID    string              `json:"accountId"`
	Transactions []TransactionRecord `json:"transactions"`
}
