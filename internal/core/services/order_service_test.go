package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/core/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	repos   portsrepo.RepositoryProvider
	service portssvc.OrderSvcFacade
	ctx     context.Context
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.repos = newMemoryRepos()
	suite.ctx = context.Background()
	suite.service = services.NewOrderService(suite.repos.UnitOfWork, suite.repos.OrderRepo, suite.repos.ProductRepo,
		services.WithShippingFee(dec("4.50")))
	seedProduct(suite.T(), suite.repos, "espresso", "Espresso Blend 250g", "9.99", 10)
	seedProduct(suite.T(), suite.repos, "kenya", "Kenya AA 1kg", "20.00", 0)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) placeOrder() *domain.Order {
	order, err := suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{
		CustomerName:    "Jonas Berg",
		CustomerEmail:   "jonas@example.com",
		ShippingAddress: "Storgatan 1, Uppsala",
		Items: []dto.OrderItemRequest{
			{ProductID: "espresso", Quantity: 2},
			{ProductID: "kenya", Quantity: 1},
		},
	}, "storefront")
	suite.Require().NoError(err)
	return order
}

func (suite *OrderServiceTestSuite) TestCreateOrder_PricesFromCatalogue() {
	order := suite.placeOrder()

	suite.Equal(domain.OrderPending, order.Status)
	suite.Equal(domain.PaymentPending, order.PaymentStatus)
	suite.Regexp(`^ORD-\d{14}-[0-9A-F]{6}$`, order.OrderNumber)
	suite.Equal("39.98", order.Subtotal.StringFixed(2))
	suite.Equal("6.00", order.Tax.StringFixed(2))
	suite.Equal("4.50", order.ShippingFee.StringFixed(2))
	suite.Equal("50.48", order.Total.StringFixed(2))
	suite.Require().Len(order.Items, 2)
	suite.Equal("19.98", order.Items[0].LineTotal.StringFixed(2))

	// Orders do not reserve stock.
	suite.Equal(10, stockOf(suite.T(), suite.repos, "espresso"))

	stored, err := suite.service.GetOrder(suite.ctx, order.OrderID)
	suite.Require().NoError(err)
	suite.Len(stored.Items, 2)

	logs := activityOf(suite.T(), suite.repos)
	suite.Require().Len(logs, 1)
	suite.Equal(domain.ActionOrderCreated, logs[0].Action)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_Rejections() {
	_, err := suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{
		CustomerName: "Jonas", CustomerEmail: "jonas@example.com", ShippingAddress: "x",
	}, "storefront")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	_, err = suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{
		CustomerName: "Jonas", CustomerEmail: "jonas@example.com", ShippingAddress: "x",
		Items: []dto.OrderItemRequest{{ProductID: "ghost", Quantity: 1}},
	}, "storefront")
	suite.True(errors.Is(err, apperrors.ErrProductNotFound))

	_, err = suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{
		CustomerID:   strPtr("nobody"),
		CustomerName: "Jonas", CustomerEmail: "jonas@example.com", ShippingAddress: "x",
		Items: []dto.OrderItemRequest{{ProductID: "espresso", Quantity: 1}},
	}, "storefront")
	suite.True(errors.Is(err, apperrors.ErrNotFound))

	_, err = suite.service.CreateOrder(suite.ctx, dto.CreateOrderRequest{
		CustomerName: "Jonas", CustomerEmail: "jonas@example.com", ShippingAddress: "x",
		Items: []dto.OrderItemRequest{{ProductID: "espresso", Quantity: domain.MaxQuantity + 1}},
	}, "storefront")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	orders, err := suite.service.ListOrders(suite.ctx, dto.ListOrdersParams{})
	suite.Require().NoError(err)
	suite.Empty(orders)
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_HappyPath() {
	order := suite.placeOrder()

	for _, next := range []domain.OrderStatus{domain.OrderConfirmed, domain.OrderOnTheWay, domain.OrderDelivered} {
		status := next
		updated, err := suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{Status: &status}, "admin-1")
		suite.Require().NoError(err)
		suite.Equal(next, updated.Status)
	}

	cancelled := domain.OrderCancelled
	_, err := suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{Status: &cancelled}, "admin-1")
	var transitionErr *apperrors.InvalidTransitionError
	suite.Require().True(errors.As(err, &transitionErr))
	suite.Equal("delivered", transitionErr.From)
	suite.Equal("cancelled", transitionErr.To)

	// created + three transitions
	suite.Len(activityOf(suite.T(), suite.repos), 4)
}

type unreadableOrders struct {
	portsrepo.OrderReader
}

func (unreadableOrders) FindOrderByID(context.Context, string) (*domain.Order, error) {
	return nil, errors.New("connection reset by peer")
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_ReloadFailureReturnsCommittedState() {
	order := suite.placeOrder()
	service := services.NewOrderService(suite.repos.UnitOfWork, unreadableOrders{suite.repos.OrderRepo}, suite.repos.ProductRepo)

	confirmed, paid := domain.OrderConfirmed, domain.PaymentPaid
	updated, err := service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{Status: &confirmed, PaymentStatus: &paid}, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(order.OrderID, updated.OrderID)
	suite.Equal(domain.OrderConfirmed, updated.Status)
	suite.Equal(domain.PaymentPaid, updated.PaymentStatus)
	suite.Equal("admin-1", updated.LastUpdatedBy)

	stored, err := suite.repos.OrderRepo.FindOrderByID(suite.ctx, order.OrderID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderConfirmed, stored.Status)
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_InvalidTransitions() {
	tests := []struct {
		name string
		path []domain.OrderStatus
		next domain.OrderStatus
	}{
		{name: "skip confirmation", next: domain.OrderOnTheWay},
		{name: "deliver pending order", next: domain.OrderDelivered},
		{name: "same status", next: domain.OrderPending},
		{name: "cancel while on the way", path: []domain.OrderStatus{domain.OrderConfirmed, domain.OrderOnTheWay}, next: domain.OrderCancelled},
		{name: "revive cancelled", path: []domain.OrderStatus{domain.OrderCancelled}, next: domain.OrderConfirmed},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			order := suite.placeOrder()
			for _, step := range tt.path {
				s := step
				_, err := suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{Status: &s}, "admin-1")
				suite.Require().NoError(err)
			}
			before, err := suite.service.GetOrder(suite.ctx, order.OrderID)
			suite.Require().NoError(err)

			next := tt.next
			_, err = suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{Status: &next}, "admin-1")
			suite.True(errors.Is(err, apperrors.ErrInvalidTransition), "got %v", err)

			after, err := suite.service.GetOrder(suite.ctx, order.OrderID)
			suite.Require().NoError(err)
			suite.Equal(before.Status, after.Status)
		})
	}
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_PaymentStatusOnly() {
	order := suite.placeOrder()
	paid := domain.PaymentPaid

	updated, err := suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{PaymentStatus: &paid}, "admin-1")
	suite.Require().NoError(err)
	suite.Equal(domain.OrderPending, updated.Status)
	suite.Equal(domain.PaymentPaid, updated.PaymentStatus)
}

func (suite *OrderServiceTestSuite) TestUpdateOrder_Rejections() {
	order := suite.placeOrder()
	unknown := domain.OrderStatus("shipped")
	unknownPayment := domain.PaymentStatus("refunded")

	_, err := suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	_, err = suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{Status: &unknown}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	_, err = suite.service.UpdateOrder(suite.ctx, order.OrderID, dto.UpdateOrderRequest{PaymentStatus: &unknownPayment}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrValidation))

	confirmed := domain.OrderConfirmed
	_, err = suite.service.UpdateOrder(suite.ctx, "missing", dto.UpdateOrderRequest{Status: &confirmed}, "admin-1")
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func (suite *OrderServiceTestSuite) TestListOrders_FiltersByStatus() {
	first := suite.placeOrder()
	suite.placeOrder()
	confirmed := domain.OrderConfirmed
	_, err := suite.service.UpdateOrder(suite.ctx, first.OrderID, dto.UpdateOrderRequest{Status: &confirmed}, "admin-1")
	suite.Require().NoError(err)

	all, err := suite.service.ListOrders(suite.ctx, dto.ListOrdersParams{Limit: 10})
	suite.Require().NoError(err)
	suite.Len(all, 2)

	onlyConfirmed, err := suite.service.ListOrders(suite.ctx, dto.ListOrdersParams{Status: "confirmed", Limit: 10})
	suite.Require().NoError(err)
	suite.Require().Len(onlyConfirmed, 1)
	suite.Equal(first.OrderID, onlyConfirmed[0].OrderID)

	_, err = suite.service.ListOrders(suite.ctx, dto.ListOrdersParams{Status: "lost"})
	suite.True(errors.Is(err, apperrors.ErrValidation))
}
