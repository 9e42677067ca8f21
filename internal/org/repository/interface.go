package repository

import (
	"context"

	"anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

// UserReader provides read access to the user directory. The engine always
// works from the full list; hierarchy resolution needs every back-reference.
type UserReader interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// UserWriter provides admin mutations on the user directory.
type UserWriter interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (domain.User, error)
}
