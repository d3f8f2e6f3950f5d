package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 14, 9, 30, 11, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newMemoryRepos() portsrepo.RepositoryProvider {
	return memory.NewRepositoryProvider(memory.NewStore())
}

func seedProduct(t *testing.T, repos portsrepo.RepositoryProvider, id, name, price string, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ProductID:   id,
		Name:        name,
		Category:    "coffee",
		Price:       decimal.RequireFromString(price),
		CostPrice:   decimal.RequireFromString("4.00"),
		TaxRate:     domain.DefaultTaxRate,
		MinStock:    2,
		MaxStock:    100,
		AuditFields: domain.NewAuditFields("admin", testNow),
	}
	p.SetStock(stock)
	require.NoError(t, repos.ProductRepo.SaveProduct(context.Background(), p))
	return p
}

func seedCustomer(t *testing.T, repos portsrepo.RepositoryProvider, id string, points int) domain.Customer {
	t.Helper()
	c := domain.Customer{
		CustomerID:    id,
		Name:          "Amara Okafor",
		Email:         id + "@example.com",
		LoyaltyPoints: points,
		CreditLimit:   decimal.Zero,
		AuditFields:   domain.NewAuditFields("admin", testNow),
	}
	require.NoError(t, repos.CustomerRepo.SaveCustomer(context.Background(), c))
	return c
}

func stockOf(t *testing.T, repos portsrepo.RepositoryProvider, productID string) int {
	t.Helper()
	p, err := repos.ProductRepo.FindProductByID(context.Background(), productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func ledgerOf(t *testing.T, repos portsrepo.RepositoryProvider, productID string) []domain.InventoryTransaction {
	t.Helper()
	entries, _, err := repos.InventoryRepo.ListInventoryTransactionsByProduct(context.Background(), productID, 100, nil)
	require.NoError(t, err)
	return entries
}

func activityOf(t *testing.T, repos portsrepo.RepositoryProvider) []domain.ActivityLog {
	t.Helper()
	logs, _, err := repos.ActivityLogRepo.ListActivityLogs(context.Background(), 100, nil)
	require.NoError(t, err)
	return logs
}

func posTransactions(t *testing.T, repos portsrepo.RepositoryProvider) []domain.POSTransaction {
	t.Helper()
	txns, _, err := repos.POSRepo.ListPOSTransactions(context.Background(), 100, nil)
	require.NoError(t, err)
	return txns
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// --- Mock DashboardCache ---
type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) Get(ctx context.Context, key string) (*domain.DashboardSummary, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Bool(1), args.Error(2)
}

func (m *MockDashboardCache) Set(ctx context.Context, key string, value *domain.DashboardSummary, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockDashboardCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
