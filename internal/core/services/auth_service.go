package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/platform/config"
	"github.com/beanline/coffee_backoffice/internal/utils"
)

// authService issues JWT access tokens to staff.
type authService struct {
	BaseService
	cfg         *config.Config
	userService portssvc.UserAuthSvc
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userService portssvc.UserAuthSvc) portssvc.AuthSvcFacade {
	return &authService{
		BaseService: newBaseService(),
		cfg:         cfg,
		userService: userService,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userService.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *authService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	accessToken, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return accessToken, expiresAt, nil
}
