package services

import (
	"context"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
)

// AuthSvcFacade issues access tokens to staff.
type AuthSvcFacade interface {
	// Login checks credentials and returns a signed access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
