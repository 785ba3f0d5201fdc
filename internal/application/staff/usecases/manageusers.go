package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/ns-ai-search/console/internal/application/staff/dto"
	"github.com/ns-ai-search/console/internal/domain/staff"
	apperrors "github.com/ns-ai-search/console/internal/shared/errors"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type CreateUserUseCase struct {
	repo   staff.Repository
	hasher staff.PasswordHasher
	logger logger.Interface
}

func NewCreateUserUseCase(repo staff.Repository, hasher staff.PasswordHasher, logger logger.Interface) *CreateUserUseCase {
	return &CreateUserUseCase{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	u, err := staff.NewUser(req.Email, req.Name, staff.Role(req.Role), req.Password, uc.hasher)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidEmail),
			errors.Is(err, staff.ErrInvalidName),
			errors.Is(err, staff.ErrInvalidRole),
			errors.Is(err, staff.ErrInvalidPassword):
			return nil, apperrors.NewValidationError(err.Error())
		}
		uc.logger.Errorw("failed to build staff user", "error", err)
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		if errors.Is(err, staff.ErrEmailTaken) {
			return nil, apperrors.NewConflictError("Email already registered")
		}
		uc.logger.Errorw("failed to create staff user", "error", err, "email", u.Email())
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}

	uc.logger.Infow("staff user created", "user_id", u.ID(), "email", u.Email(), "role", u.Role())
	return dto.ToUserResponse(u), nil
}

type DeleteUserUseCase struct {
	repo   staff.Repository
	logger logger.Interface
}

func NewDeleteUserUseCase(repo staff.Repository, logger logger.Interface) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, email string) error {
	if err := uc.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, staff.ErrUserNotFound) {
			return apperrors.NewNotFoundError("Staff user not found")
		}
		uc.logger.Errorw("failed to delete staff user", "error", err, "email", email)
		return fmt.Errorf("failed to delete staff user: %w", err)
	}
	uc.logger.Infow("staff user deleted", "email", email)
	return nil
}

type GetUserUseCase struct {
	repo   staff.Repository
	logger logger.Interface
}

func NewGetUserUseCase(repo staff.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, id uint) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to get staff user", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get staff user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("Staff user not found")
	}
	return dto.ToUserResponse(u), nil
}
