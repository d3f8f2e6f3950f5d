package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/core/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/stretchr/testify/suite"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	repos   portsrepo.RepositoryProvider
	service portssvc.InventorySvcFacade
	ctx     context.Context
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.repos = newMemoryRepos()
	suite.ctx = context.Background()
	suite.service = services.NewInventoryService(suite.repos.UnitOfWork, suite.repos.ProductRepo, suite.repos.InventoryRepo)
	seedProduct(suite.T(), suite.repos, "espresso", "Espresso Blend 250g", "9.99", 5)
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

func qty(n int) *int { return &n }

func (suite *InventoryServiceTestSuite) TestAdjustStock() {
	tests := []struct {
		name      string
		adjType   domain.AdjustmentType
		quantity  int
		reason    string
		wantStock int
		wantDelta int
		wantType  domain.InventoryTransactionType
		wantIn    bool
	}{
		{name: "increase on restocking", adjType: domain.AdjustIncrease, quantity: 7, reason: "restocking", wantStock: 12, wantDelta: 7, wantType: domain.InventoryPurchase, wantIn: true},
		{name: "decrease for damage", adjType: domain.AdjustDecrease, quantity: 2, reason: "Damage", wantStock: 3, wantDelta: -2, wantType: domain.InventoryDamage, wantIn: true},
		{name: "decrease is floored at zero", adjType: domain.AdjustDecrease, quantity: 8, reason: "expired", wantStock: 0, wantDelta: -5, wantType: domain.InventoryDamage, wantIn: false},
		{name: "set after stock count", adjType: domain.AdjustSet, quantity: 40, reason: "stock count", wantStock: 40, wantDelta: 35, wantType: domain.InventoryAdjustment, wantIn: true},
		{name: "set to current still writes ledger", adjType: domain.AdjustSet, quantity: 5, reason: "correction", wantStock: 5, wantDelta: 0, wantType: domain.InventoryAdjustment, wantIn: true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()

			resp, err := suite.service.AdjustStock(suite.ctx, dto.AdjustInventoryRequest{
				ProductID: "espresso",
				Type:      tt.adjType,
				Quantity:  qty(tt.quantity),
				Reason:    tt.reason,
				UnitCost:  decPtr("4.255"),
			}, "admin-1")
			suite.Require().NoError(err)

			suite.Equal(tt.wantStock, resp.Product.CurrentStock)
			suite.Equal(tt.wantIn, resp.Product.InStock)
			suite.Equal(tt.wantDelta, resp.Transaction.Quantity)
			suite.Equal(5, resp.Transaction.PreviousStock)
			suite.Equal(tt.wantStock, resp.Transaction.NewStock)
			suite.Equal(tt.wantType, resp.Transaction.Type)
			suite.Equal(domain.ReferenceManual, resp.Transaction.ReferenceType)
			suite.Equal("4.26", resp.Transaction.UnitCost.StringFixed(2))

			suite.Equal(tt.wantStock, stockOf(suite.T(), suite.repos, "espresso"))
			suite.Len(ledgerOf(suite.T(), suite.repos, "espresso"), 1)

			logs := activityOf(suite.T(), suite.repos)
			suite.Require().Len(logs, 1)
			suite.Equal(domain.ActionInventoryAdjust, logs[0].Action)
			suite.Equal("admin-1", logs[0].ActorID)
		})
	}
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_Rejections() {
	tests := []struct {
		name   string
		req    dto.AdjustInventoryRequest
		staff  string
		target error
	}{
		{name: "missing quantity", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Reason: "restocking"}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "negative quantity", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(-1), Reason: "restocking"}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "increase overflowing stock", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(math.MaxInt), Reason: "restocking"}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "increase past column range", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(domain.MaxQuantity - 4), Reason: "restocking"}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "set above column range", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustSet, Quantity: qty(domain.MaxQuantity + 1), Reason: "stock count"}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "unknown type", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: "multiply", Quantity: qty(2), Reason: "restocking"}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "blank reason", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(2), Reason: "  "}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "negative unit cost", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(2), Reason: "restocking", UnitCost: decPtr("-1")}, staff: "admin-1", target: apperrors.ErrValidation},
		{name: "no staff", req: dto.AdjustInventoryRequest{ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(2), Reason: "restocking"}, staff: "", target: apperrors.ErrUnauthorized},
		{name: "unknown product", req: dto.AdjustInventoryRequest{ProductID: "ghost", Type: domain.AdjustIncrease, Quantity: qty(2), Reason: "restocking"}, staff: "admin-1", target: apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.AdjustStock(suite.ctx, tt.req, tt.staff)
			suite.Require().Error(err)
			suite.True(errors.Is(err, tt.target), "got %v", err)
			suite.Equal(5, stockOf(suite.T(), suite.repos, "espresso"))
			suite.Empty(ledgerOf(suite.T(), suite.repos, "espresso"))
			suite.Empty(activityOf(suite.T(), suite.repos))
		})
	}
}

func (suite *InventoryServiceTestSuite) TestListMovements() {
	for _, q := range []int{1, 2, 3} {
		_, err := suite.service.AdjustStock(suite.ctx, dto.AdjustInventoryRequest{
			ProductID: "espresso", Type: domain.AdjustIncrease, Quantity: qty(q), Reason: "restocking",
		}, "admin-1")
		suite.Require().NoError(err)
	}

	page, err := suite.service.ListMovements(suite.ctx, "espresso", dto.ListMovementsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Len(page.Movements, 2)
	suite.Require().NotNil(page.NextToken)

	rest, err := suite.service.ListMovements(suite.ctx, "espresso", dto.ListMovementsParams{Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Len(rest.Movements, 1)

	_, err = suite.service.ListMovements(suite.ctx, "ghost", dto.ListMovementsParams{})
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}
