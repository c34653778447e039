package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/axis-pay/ledger-service/src/internal/commons"
	"github.com/axis-pay/ledger-service/src/internal/domain"
	"github.com/axis-pay/ledger-service/src/internal/logger"
)

type UserService struct {
	userRepo repo_interfaces.UserRepository
	tokens   *TokenService
}

func NewUserService(userRepo repo_interfaces.UserRepository, tokens *TokenService) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (commons.Response[models.SignupResponse], error) {
	logger.Info("user service signup request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service signup validation failed", err, nil)
		return commons.ErrorResponse[models.SignupResponse]("validation failed", err.Error()), err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		logger.Error("user service signup hash password failed", err, nil)
		return commons.ErrorResponse[models.SignupResponse]("failed to create user", "failed to hash password"), err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:             uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return commons.ErrorResponse[models.SignupResponse]("User already exists"), err
		}
		logger.Error("user service signup repository failed", err, logger.Fields{
			"email": user.Email,
		})
		return commons.ErrorResponse[models.SignupResponse]("failed to create user", "Unable to create user right now"), err
	}

	logger.Info("user service signup success", logger.Fields{
		"userId": created.ID.String(),
		"email":  created.Email,
	})

	return commons.SuccessResponse("user created successfully", models.SignupResponse{
		ID:    created.ID.String(),
		Email: created.Email,
	}), nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("user service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service login validation failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password report the same failure.
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.LoginResponse]("invalid credentials"), domain.ErrInvalidCredentials
		}
		logger.Error("user service login lookup failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		logger.Info("user service login password mismatch", logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.LoginResponse]("invalid credentials"), domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		logger.Error("user service login token issue failed", err, logger.Fields{
			"userId": user.ID.String(),
		})
		return commons.ErrorResponse[models.LoginResponse]("failed to login", "Unable to login right now"), err
	}

	logger.Info("user service login success", logger.Fields{
		"userId": user.ID.String(),
	})

	return commons.SuccessResponse("login successful", models.LoginResponse{Token: token}), nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}
