package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/core/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_ServesCacheHit(t *testing.T) {
	repos := newMemoryRepos()
	cache := new(MockDashboardCache)
	cached := &domain.DashboardSummary{POSRevenue: decimal.RequireFromString("42.00")}
	cache.On("Get", mock.Anything, "dashboard:summary").Return(cached, true, nil).Once()

	svc := services.NewDashboardService(repos.DashboardRepo, time.Minute, services.BaseService{DashboardCache: cache})
	got, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Same(t, cached, got)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestDashboardService_MissComputesAndStores(t *testing.T) {
	repos := newMemoryRepos()
	seedProduct(t, repos, "espresso", "Espresso Blend 250g", "9.99", 10)
	seedProduct(t, repos, "kenya", "Kenya AA 1kg", "20.00", 1)

	pos := services.NewPOSService(repos.UnitOfWork, repos.POSRepo, services.WithPOSClock(fixedClock))
	_, err := pos.CreateTransaction(context.Background(), dto.CreatePOSTransactionRequest{
		Items:         []dto.POSItemRequest{{ProductID: "espresso", Quantity: 1}},
		PaymentMethod: domain.PaymentCash,
	}, "cashier-1")
	require.NoError(t, err)

	cache := new(MockDashboardCache)
	cache.On("Get", mock.Anything, "dashboard:summary").Return(nil, false, nil).Once()
	cache.On("Set", mock.Anything, "dashboard:summary", mock.AnythingOfType("*domain.DashboardSummary"), time.Minute).Return(nil).Once()

	svc := services.NewDashboardService(repos.DashboardRepo, time.Minute, services.BaseService{DashboardCache: cache})
	summary, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "11.49", summary.POSRevenue.StringFixed(2))
	assert.Equal(t, 1, summary.POSTransactionCount)
	assert.Equal(t, 1, summary.LowStockCount)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "espresso", summary.TopProducts[0].ProductID)
	cache.AssertExpectations(t)
}

func TestDashboardService_CacheErrorsFallThrough(t *testing.T) {
	repos := newMemoryRepos()
	cache := new(MockDashboardCache)
	cache.On("Get", mock.Anything, "dashboard:summary").Return(nil, false, errors.New("redis down")).Once()
	cache.On("Set", mock.Anything, "dashboard:summary", mock.Anything, time.Minute).Return(errors.New("redis down")).Once()

	svc := services.NewDashboardService(repos.DashboardRepo, time.Minute, services.BaseService{DashboardCache: cache})
	summary, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.POSRevenue.IsZero())
	cache.AssertExpectations(t)
}

func TestDashboardService_ZeroTTLBypassesCache(t *testing.T) {
	repos := newMemoryRepos()
	cache := new(MockDashboardCache)

	svc := services.NewDashboardService(repos.DashboardRepo, 0, services.BaseService{DashboardCache: cache})
	_, err := svc.GetSummary(context.Background())

	require.NoError(t, err)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
