package repo_interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/axis-pay/ledger-service/src/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
