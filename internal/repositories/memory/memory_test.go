package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MemoryRepositoryTestSuite struct {
	suite.Suite
	repos portsrepo.RepositoryProvider
	ctx   context.Context
	now   time.Time
}

func (suite *MemoryRepositoryTestSuite) SetupTest() {
	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	p := domain.Product{
		ProductID:   "p-1",
		Name:        "Sidamo 500g",
		Price:       decimal.RequireFromString("18.00"),
		TaxRate:     domain.DefaultTaxRate,
		MinStock:    2,
		AuditFields: domain.NewAuditFields("admin", suite.now),
	}
	p.SetStock(10)
	suite.Require().NoError(suite.repos.ProductRepo.SaveProduct(suite.ctx, p))
}

func (suite *MemoryRepositoryTestSuite) TestWithinTransaction_CommitsOnSuccess() {
	err := suite.repos.UnitOfWork.WithinTransaction(suite.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Products.UpdateProductStock(ctx, "p-1", 7, true, "staff", suite.now); err != nil {
			return err
		}
		return tx.Inventory.AppendInventoryTransactions(ctx, domain.InventoryTransaction{
			InventoryTransactionID: "inv-1", ProductID: "p-1", Type: domain.InventorySale, Quantity: -3,
			PreviousStock: 10, NewStock: 7, CreatedAt: suite.now,
		})
	})
	suite.Require().NoError(err)

	p, err := suite.repos.ProductRepo.FindProductByID(suite.ctx, "p-1")
	suite.Require().NoError(err)
	suite.Equal(7, p.CurrentStock)

	entries, next, err := suite.repos.InventoryRepo.ListInventoryTransactionsByProduct(suite.ctx, "p-1", 10, nil)
	suite.Require().NoError(err)
	suite.Nil(next)
	suite.Len(entries, 1)
}

func (suite *MemoryRepositoryTestSuite) TestWithinTransaction_RollsBackOnError() {
	boom := errors.New("boom")
	err := suite.repos.UnitOfWork.WithinTransaction(suite.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Products.UpdateProductStock(ctx, "p-1", 0, false, "staff", suite.now); err != nil {
			return err
		}
		if err := tx.ActivityLogs.AppendActivityLog(ctx, domain.ActivityLog{ActivityID: "a-1", CreatedAt: suite.now}); err != nil {
			return err
		}
		// Writes are visible inside the transaction.
		p, err := tx.Products.FindProductForUpdate(ctx, "p-1")
		suite.Require().NoError(err)
		suite.Equal(0, p.CurrentStock)
		return boom
	})
	suite.ErrorIs(err, boom)

	p, err := suite.repos.ProductRepo.FindProductByID(suite.ctx, "p-1")
	suite.Require().NoError(err)
	suite.Equal(10, p.CurrentStock)
	suite.True(p.InStock)

	logs, _, err := suite.repos.ActivityLogRepo.ListActivityLogs(suite.ctx, 10, nil)
	suite.Require().NoError(err)
	suite.Empty(logs)
}

func (suite *MemoryRepositoryTestSuite) TestReturnedTransactionsAreCopies() {
	txn := domain.POSTransaction{
		TransactionID: "t-1", TransactionNumber: "POS-1", Status: domain.POSCompleted,
		Items:       []domain.POSTransactionItem{{ItemID: "i-1", ProductID: "p-1", Quantity: 1}},
		AuditFields: domain.NewAuditFields("staff", suite.now),
	}
	suite.Require().NoError(suite.repos.POSRepo.SavePOSTransaction(suite.ctx, txn))

	got, err := suite.repos.POSRepo.FindPOSTransactionByID(suite.ctx, "t-1")
	suite.Require().NoError(err)
	got.Items[0].Quantity = 99

	again, err := suite.repos.POSRepo.FindPOSTransactionByID(suite.ctx, "t-1")
	suite.Require().NoError(err)
	suite.Equal(1, again.Items[0].Quantity)

	suite.ErrorIs(suite.repos.POSRepo.SavePOSTransaction(suite.ctx, txn), apperrors.ErrDuplicate)
}

func (suite *MemoryRepositoryTestSuite) TestTokenPaginationNewestFirst() {
	for i := 0; i < 5; i++ {
		suite.Require().NoError(suite.repos.ActivityLogRepo.AppendActivityLog(suite.ctx, domain.ActivityLog{
			ActivityID: fmt.Sprintf("a-%d", i),
			CreatedAt:  suite.now.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, next, err := suite.repos.ActivityLogRepo.ListActivityLogs(suite.ctx, 2, nil)
	suite.Require().NoError(err)
	suite.Require().NotNil(next)
	suite.Equal([]string{"a-4", "a-3"}, activityIDs(page))

	page, next, err = suite.repos.ActivityLogRepo.ListActivityLogs(suite.ctx, 2, next)
	suite.Require().NoError(err)
	suite.Require().NotNil(next)
	suite.Equal([]string{"a-2", "a-1"}, activityIDs(page))

	page, next, err = suite.repos.ActivityLogRepo.ListActivityLogs(suite.ctx, 2, next)
	suite.Require().NoError(err)
	suite.Nil(next)
	suite.Equal([]string{"a-0"}, activityIDs(page))

	bad := "%%%"
	_, _, err = suite.repos.ActivityLogRepo.ListActivityLogs(suite.ctx, 2, &bad)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(400, appErr.Code)
}

func (suite *MemoryRepositoryTestSuite) TestUsersByEmail() {
	u := domain.User{UserID: "u-1", Email: "Barista@Example.com", Role: domain.RoleCashier, AuditFields: domain.NewAuditFields("u-1", suite.now)}
	suite.Require().NoError(suite.repos.UserRepo.SaveUser(suite.ctx, u))

	found, err := suite.repos.UserRepo.FindUserByEmail(suite.ctx, "barista@example.com")
	suite.Require().NoError(err)
	suite.Equal("u-1", found.UserID)

	dup := u
	dup.UserID = "u-2"
	suite.ErrorIs(suite.repos.UserRepo.SaveUser(suite.ctx, dup), apperrors.ErrDuplicate)

	suite.Require().NoError(suite.repos.UserRepo.MarkUserDeleted(suite.ctx, "u-1", suite.now, "admin"))
	_, err = suite.repos.UserRepo.FindUserByEmail(suite.ctx, "barista@example.com")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *MemoryRepositoryTestSuite) TestDashboardSummary() {
	suite.Require().NoError(suite.repos.POSRepo.SavePOSTransaction(suite.ctx, domain.POSTransaction{
		TransactionID: "sale", TransactionNumber: "POS-1", Status: domain.POSCompleted,
		Total: decimal.RequireFromString("41.40"),
		Items: []domain.POSTransactionItem{{ItemID: "i-1", ProductID: "p-1", ProductName: "Sidamo 500g", Quantity: 2, LineTotal: decimal.RequireFromString("36.00")}},
	}))
	orig := "sale"
	suite.Require().NoError(suite.repos.POSRepo.SavePOSTransaction(suite.ctx, domain.POSTransaction{
		TransactionID: "refund", TransactionNumber: "REF-1", Status: domain.POSCompleted, OriginalTransactionID: &orig,
		Total: decimal.RequireFromString("-20.70"),
		Items: []domain.POSTransactionItem{{ItemID: "i-2", ProductID: "p-1", ProductName: "Sidamo 500g", Quantity: -1, LineTotal: decimal.RequireFromString("-18.00")}},
	}))
	suite.Require().NoError(suite.repos.OrderRepo.SaveOrder(suite.ctx, domain.Order{
		OrderID: "o-1", Status: domain.OrderConfirmed, PaymentStatus: domain.PaymentPaid, Total: decimal.RequireFromString("30"),
	}))

	s, err := suite.repos.DashboardRepo.GetDashboardSummary(suite.ctx, 5, 5)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("20.70").Equal(s.POSRevenue), "got %s", s.POSRevenue)
	suite.True(decimal.RequireFromString("20.70").Equal(s.RefundTotal), "got %s", s.RefundTotal)
	suite.Equal(1, s.POSTransactionCount)
	suite.True(decimal.NewFromInt(30).Equal(s.OrderRevenue))
	suite.Equal(1, s.OrdersByStatus["confirmed"])
	suite.Require().Len(s.TopProducts, 1)
	suite.Equal(1, s.TopProducts[0].QuantitySold)
	suite.Len(s.RecentOrders, 1)
}

func activityIDs(logs []domain.ActivityLog) []string {
	ids := make([]string, len(logs))
	for i, l := range logs {
		ids[i] = l.ActivityID
	}
	return ids
}

func TestMemoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}
