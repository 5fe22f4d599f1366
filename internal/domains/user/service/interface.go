package service

import (
	"context"

	"github.com/google/uuid"

	"pagecraft-backend/internal/domains/user/model"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegisterReq) (*model.Profile, error)
	Login(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	Profile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}
