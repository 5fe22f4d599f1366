package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pagecraft-backend/internal/domains/user/model"
	"pagecraft-backend/internal/domains/user/repository"
	"pagecraft-backend/internal/shared"
	"pagecraft-backend/pkg/jwt"
)

const bcryptCost = 12

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(repo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{repo: repo, jwtManager: jwtManager}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterReq) (*model.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}

	now := time.Now()
	u := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Nickname:     nickname,
		Role:         shared.RoleNormal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	p := u.ToProfile()
	return &p, nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error) {
	u, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Do not reveal whether the username exists.
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	return &model.LoginResp{
		TokenPair: *pair,
		User:      u.ToProfile(),
	}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	// Re-read the user so a rotated role takes effect on the next
	// access token, not at some distant expiry.
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(u)
}

func (s *userService) Profile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := u.ToProfile()
	return &p, nil
}

func (s *userService) issueTokens(u *model.User) (*model.TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
