package usecases

import (
	"context"
	"fmt"

	"github.com/ns-ai-search/console/internal/application/staff/dto"
	"github.com/ns-ai-search/console/internal/domain/staff"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// TokenIssuer signs access tokens for staff sessions.
type TokenIssuer interface {
	Generate(userID uint, role string) (string, int64, error)
}

type LoginUseCase struct {
	repo   staff.Repository
	hasher staff.PasswordHasher
	tokens TokenIssuer
	logger logger.Interface
}

func NewLoginUseCase(repo staff.Repository, hasher staff.PasswordHasher, tokens TokenIssuer, logger logger.Interface) *LoginUseCase {
	return &LoginUseCase{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := uc.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		uc.logger.Errorw("failed to get staff user by email", "error", err)
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}

	// unknown email and wrong password are indistinguishable
	if u == nil || !u.VerifyPassword(req.Password, uc.hasher) {
		uc.logger.Warnw("staff login rejected", "email", req.Email)
		return nil, apperrors.NewInvalidCredentialsError()
	}

	token, expiresIn, err := uc.tokens.Generate(u.ID(), string(u.Role()))
	if err != nil {
		uc.logger.Errorw("failed to generate access token", "error", err, "user_id", u.ID())
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.logger.Warnw("failed to record last login", "error", err, "user_id", u.ID())
	}

	uc.logger.Infow("staff user logged in", "user_id", u.ID(), "role", u.Role())

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        dto.ToUserResponse(u),
	}, nil
}
