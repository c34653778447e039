package controller

import (
	"encoding/json"
	"net/http"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/commons"
	"github.com/axis-pay/ledger-service/src/internal/usecase/service_interfaces"
)

type AuthController struct {
	service service_interfaces.UserService
}

func NewAuthController(service service_interfaces.UserService) *AuthController {
	return &AuthController{service: service}
}

// Auth routes stay outside the bearer middleware: they are how tokens are
// obtained in the first place.
func (c *AuthController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	mux.Handle("POST /auth/signup", http.HandlerFunc(c.signup))
	mux.Handle("POST /auth/login", http.HandlerFunc(c.login))
}

func (c *AuthController) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.SignupResponse]("invalid request body", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.SignupResponse]("validation failed", err.Error()))
		return
	}

	response, err := c.service.Signup(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()))
		return
	}

	response, err := c.service.Login(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
