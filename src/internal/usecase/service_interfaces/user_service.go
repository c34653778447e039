package service_interfaces

import (
	"context"

	"github.com/axis-pay/ledger-service/src/internal/adapter/http/models"
	"github.com/axis-pay/ledger-service/src/internal/commons"
)

type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (commons.Response[models.SignupResponse], error)
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
}
