package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/core/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/platform/config"
	"github.com/beanline/coffee_backoffice/internal/utils"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	repos   portsrepo.RepositoryProvider
	service portssvc.UserSvcFacade
	ctx     context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.repos = newMemoryRepos()
	suite.service = services.NewUserService(suite.repos.UserRepo)
	suite.ctx = context.Background()
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) createCashier() *domain.User {
	u, err := suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{
		Name:     "Lina Haddad",
		Email:    "Lina@Example.com",
		Password: "correct-horse",
		Role:     domain.RoleCashier,
	}, "admin-1")
	suite.Require().NoError(err)
	return u
}

func (suite *UserServiceTestSuite) TestCreateAndAuthenticate() {
	u := suite.createCashier()
	suite.Equal("lina@example.com", u.Email)
	suite.NotEqual("correct-horse", u.PasswordHash)

	got, err := suite.service.AuthenticateUser(suite.ctx, "LINA@example.com", "correct-horse")
	suite.Require().NoError(err)
	suite.Equal(u.UserID, got.UserID)

	_, err = suite.service.AuthenticateUser(suite.ctx, "lina@example.com", "wrong-horse")
	suite.True(errors.Is(err, apperrors.ErrUnauthorized))

	_, err = suite.service.AuthenticateUser(suite.ctx, "nobody@example.com", "correct-horse")
	suite.True(errors.Is(err, apperrors.ErrUnauthorized))
}

func (suite *UserServiceTestSuite) TestCreateUser_Rejections() {
	suite.createCashier()

	_, err := suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{
		Name: "Dup", Email: "lina@example.com", Password: "long-enough", Role: domain.RoleCashier,
	}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrDuplicate))

	_, err = suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{
		Name: "Short", Email: "short@example.com", Password: "abc", Role: domain.RoleCashier,
	}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	_, err = suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{
		Name: "Boss", Email: "boss@example.com", Password: "long-enough", Role: "owner",
	}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *UserServiceTestSuite) TestDeleteUser() {
	u := suite.createCashier()

	err := suite.service.DeleteUser(suite.ctx, u.UserID, u.UserID)
	suite.True(errors.Is(err, apperrors.ErrForbidden))

	suite.Require().NoError(suite.service.DeleteUser(suite.ctx, u.UserID, "admin-1"))
	_, err = suite.service.GetUserByID(suite.ctx, u.UserID)
	suite.True(errors.Is(err, apperrors.ErrNotFound))

	_, err = suite.service.AuthenticateUser(suite.ctx, "lina@example.com", "correct-horse")
	suite.True(errors.Is(err, apperrors.ErrUnauthorized))
}

func (suite *UserServiceTestSuite) TestEnsureBootstrapAdmin() {
	created, err := suite.service.EnsureBootstrapAdmin(suite.ctx, "", "")
	suite.Require().NoError(err)
	suite.False(created)

	created, err = suite.service.EnsureBootstrapAdmin(suite.ctx, "owner@example.com", "first-password")
	suite.Require().NoError(err)
	suite.True(created)

	admin, err := suite.service.AuthenticateUser(suite.ctx, "owner@example.com", "first-password")
	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, admin.Role)

	created, err = suite.service.EnsureBootstrapAdmin(suite.ctx, "second@example.com", "another-password")
	suite.Require().NoError(err)
	suite.False(created)
}

func (suite *UserServiceTestSuite) TestLoginIssuesVerifiableToken() {
	u := suite.createCashier()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryDuration: time.Hour, JWTIssuer: "coffee-test"}
	auth := services.NewAuthService(cfg, suite.service)

	resp, err := auth.Login(suite.ctx, dto.LoginRequest{Email: "lina@example.com", Password: "correct-horse"})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.WithinDuration(time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := utils.ParseAndValidateJWT(resp.Token, "test-secret")
	suite.Require().NoError(err)
	suite.Equal(u.UserID, claims.Subject)
	suite.Equal("coffee-test", claims.Issuer)

	_, err = auth.Login(suite.ctx, dto.LoginRequest{Email: "lina@example.com", Password: "nope-nope"})
	suite.True(errors.Is(err, apperrors.ErrUnauthorized))
}
