package repository

import (
	"context"

	"github.com/google/uuid"

	"pagecraft-backend/internal/domains/user/model"
)

type UserRepository interface {
	// Create inserts a new user. A username collision returns
	// model.ErrUsernameTaken.
	Create(ctx context.Context, u *model.User) error

	// GetByID returns model.ErrUserNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByUsername returns model.ErrUserNotFound when no row matches.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
