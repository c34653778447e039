package controller

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/middleware"
	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/commons"
	"github.com/axis-pay/ledger-service/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"POST /api/accounts/open":                    c.openAccount,
		"GET /api/accounts/{accountId}":              c.findAccount,
		"POST /api/accounts/{accountId}/deposit":     c.deposit,
		"POST /api/accounts/{accountId}/withdraw":    c.withdraw,
		"GET /api/accounts/{accountId}/balance":      c.getBalance,
		"GET /api/accounts/{accountId}/transactions": c.statement,
	}

	for pattern, handlerFunc := range routes {
		handler := http.Handler(handlerFunc)
		if authMiddleware != nil {
			handler = authMiddleware(handler)
		}
		mux.Handle(pattern, handler)
	}
}

func (c *AccountController) openAccount(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[models.OpenAccountResponse]("unauthorized"))
		return
	}

	response, err := c.service.OpenAccount(r.Context(), requesterID)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[models.TransactionResponse]("unauthorized"))
		return
	}

	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", "accountId must be a valid uuid"))
		return
	}

	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}

	response, err := c.service.Deposit(r.Context(), accountID, requesterID, req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[models.TransactionResponse]("unauthorized"))
		return
	}

	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("validation failed", "accountId must be a valid uuid"))
		return
	}

	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}

	response, err := c.service.Withdraw(r.Context(), accountID, requesterID, req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[models.BalanceResponse]("unauthorized"))
		return
	}

	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.BalanceResponse]("validation failed", "accountId must be a valid uuid"))
		return
	}

	response, err := c.service.GetBalance(r.Context(), accountID, requesterID)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) findAccount(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[models.AccountResponse]("unauthorized"))
		return
	}

	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.AccountResponse]("validation failed", "accountId must be a valid uuid"))
		return
	}

	response, err := c.service.FindAccount(r.Context(), accountID, requesterID)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *AccountController) statement(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.RequesterID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, commons.ErrorResponse[models.StatementResponse]("unauthorized"))
		return
	}

	accountID, err := uuid.Parse(r.PathValue("accountId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.StatementResponse]("validation failed", "accountId must be a valid uuid"))
		return
	}

	response, err := c.service.Statement(r.Context(), accountID, requesterID)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
