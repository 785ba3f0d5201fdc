package staff

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/staff/dto"
	"github.com/ns-ai-search/console/internal/application/staff/usecases"
	"github.com/ns-ai-search/console/internal/domain/staff"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

type ServiceDDD struct {
	login      *usecases.LoginUseCase
	createUser *usecases.CreateUserUseCase
	deleteUser *usecases.DeleteUserUseCase
	getUser    *usecases.GetUserUseCase
}

func NewServiceDDD(repo staff.Repository, hasher staff.PasswordHasher, tokens usecases.TokenIssuer, logger logger.Interface) *ServiceDDD {
	return &ServiceDDD{
		login:      usecases.NewLoginUseCase(repo, hasher, tokens, logger),
		createUser: usecases.NewCreateUserUseCase(repo, hasher, logger),
		deleteUser: usecases.NewDeleteUserUseCase(repo, logger),
		getUser:    usecases.NewGetUserUseCase(repo, logger),
	}
}

func (s *ServiceDDD) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.login.Execute(ctx, req)
}

func (s *ServiceDDD) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	return s.createUser.Execute(ctx, req)
}

func (s *ServiceDDD) DeleteUser(ctx context.Context, email string) error {
	return s.deleteUser.Execute(ctx, email)
}

func (s *ServiceDDD) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	return s.getUser.Execute(ctx, id)
}
