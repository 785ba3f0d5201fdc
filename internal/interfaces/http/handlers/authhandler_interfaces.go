package handlers

import (
	"context"

	"github.com/ns-ai-search/console/internal/application/staff/dto"
)

// staffAuthService is the slice of the staff service used by AuthHandler.
type staffAuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
}
