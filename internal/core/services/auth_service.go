package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medantrix/hms_accounting_app/internal/apperrors"
	portsrepo "github.com/medantrix/hms_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/medantrix/hms_accounting_app/internal/core/ports/services"
	"github.com/medantrix/hms_accounting_app/internal/dto"
	"github.com/medantrix/hms_accounting_app/internal/platform/config"
	"github.com/medantrix/hms_accounting_app/internal/utils"
)

// authService implements the AuthSvcFacade interface
type authService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepository) portssvc.AuthSvcFacade {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Indistinguishable from a wrong password
			return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to find user for login",
			slog.String("username", req.Username))
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("user is inactive: %w", apperrors.ErrUnauthorized)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.LogWarn(ctx, "Failed login attempt",
			slog.String("username", req.Username))
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token",
			slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.LogInfo(ctx, "User logged in",
		slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.JWTExpiryDuration),
		User:      dto.ToUserResponse(user),
	}, nil
}
