package services

import (
	"context"

	"github.com/medantrix/hms_accounting_app/internal/core/domain"
	"github.com/medantrix/hms_accounting_app/internal/dto"
)

// UserSvcFacade defines staff user operations.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// AuthSvcFacade authenticates staff users and issues access tokens.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
