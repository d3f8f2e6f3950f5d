package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/cart"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/handlers"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StoreHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCart  *MockCartService
	mockOrder *MockOrderService
}

func (suite *StoreHandlerTestSuite) SetupSuite() {
	suite.Require().NoError(dto.RegisterValidators())
}

func (suite *StoreHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockCart = new(MockCartService)
	suite.mockOrder = new(MockOrderService)
	handlers.RegisterStoreRoutes(suite.router, suite.mockCart, suite.mockOrder, nil)
}

func (suite *StoreHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func twoBagCart() cart.State {
	price := decimal.RequireFromString("19.99")
	return cart.State{
		Items: []cart.Item{
			{Product: cart.Product{ProductID: "kenya", Name: "Kenya AA", Price: price}, Quantity: 2},
		},
		Total:     decimal.RequireFromString("39.98"),
		ItemCount: 2,
	}
}

var checkoutBody = map[string]any{
	"customerName":    "Ada",
	"customerEmail":   "ada@example.com",
	"shippingAddress": "1 Roast Lane",
}

func (suite *StoreHandlerTestSuite) TestAddItem_NoTokenRequired() {
	suite.mockCart.On("AddItem", mock.Anything, "cart-1", "kenya", 2).Return(twoBagCart(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/items", map[string]any{"productID": "kenya", "quantity": 2})

	suite.Equal(http.StatusOK, w.Code)
	var state cart.State
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &state))
	suite.Equal(2, state.ItemCount)
	suite.True(state.Total.Equal(decimal.RequireFromString("39.98")))
}

func (suite *StoreHandlerTestSuite) TestAddItem_UnknownProduct() {
	suite.mockCart.On("AddItem", mock.Anything, "cart-1", "ghost", 1).Return(cart.State{}, apperrors.ErrProductNotFound).Once()

	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/items", map[string]any{"productID": "ghost", "quantity": 1})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *StoreHandlerTestSuite) TestSetQuantity_ZeroPassesThrough() {
	suite.mockCart.On("SetQuantity", mock.Anything, "cart-1", "kenya", 0).Return(cart.State{Items: []cart.Item{}}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/store/carts/cart-1/items/kenya", map[string]any{"quantity": 0})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockCart.AssertExpectations(suite.T())
}

func (suite *StoreHandlerTestSuite) TestCheckout_PlacesOrderAndClearsCart() {
	order := &domain.Order{
		OrderID:       "order-1",
		OrderNumber:   "ORD-20250114093011-0A1B2C",
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		Total:         decimal.RequireFromString("45.98"),
	}
	order.CreatedAt = time.Date(2025, 1, 14, 9, 30, 11, 0, time.UTC)

	suite.mockCart.On("Get", mock.Anything, "cart-1").Return(twoBagCart(), nil).Once()
	suite.mockOrder.On("CreateOrder", mock.Anything,
		mock.MatchedBy(func(r dto.CreateOrderRequest) bool {
			return r.CustomerEmail == "ada@example.com" &&
				len(r.Items) == 1 && r.Items[0].ProductID == "kenya" && r.Items[0].Quantity == 2
		}),
		"storefront",
	).Return(order, nil).Once()
	suite.mockCart.On("Clear", mock.Anything, "cart-1").Return(cart.State{Items: []cart.Item{}}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/checkout", checkoutBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.OrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("order-1", resp.Order.OrderID)
	suite.Equal(domain.OrderPending, resp.Order.Status)
	suite.mockCart.AssertExpectations(suite.T())
	suite.mockOrder.AssertExpectations(suite.T())
}

func (suite *StoreHandlerTestSuite) TestCheckout_EmptyCart() {
	suite.mockCart.On("Get", mock.Anything, "cart-1").Return(cart.State{Items: []cart.Item{}}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/checkout", checkoutBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockOrder.AssertNotCalled(suite.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StoreHandlerTestSuite) TestCheckout_StockShortageKeepsCart() {
	suite.mockCart.On("Get", mock.Anything, "cart-1").Return(twoBagCart(), nil).Once()
	suite.mockOrder.On("CreateOrder", mock.Anything, mock.Anything, "storefront").
		Return(nil, &apperrors.InsufficientStockError{ProductID: "kenya", ProductName: "Kenya AA", Available: 1, Requested: 2}).Once()

	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/checkout", checkoutBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCart.AssertNotCalled(suite.T(), "Clear", mock.Anything, mock.Anything)
}

func (suite *StoreHandlerTestSuite) TestCheckout_ClearFailureStillCreated() {
	suite.mockCart.On("Get", mock.Anything, "cart-1").Return(twoBagCart(), nil).Once()
	suite.mockOrder.On("CreateOrder", mock.Anything, mock.Anything, "storefront").Return(&domain.Order{OrderID: "order-2"}, nil).Once()
	suite.mockCart.On("Clear", mock.Anything, "cart-1").Return(cart.State{}, errors.New("redis: connection refused")).Once()

	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/checkout", checkoutBody)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *StoreHandlerTestSuite) TestCheckout_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/store/carts/cart-1/checkout", map[string]any{
		"customerName":    "Ada",
		"customerEmail":   "not-an-email",
		"shippingAddress": "1 Roast Lane",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCart.AssertNotCalled(suite.T(), "Get", mock.Anything, mock.Anything)
}

func (suite *StoreHandlerTestSuite) TestStorefrontRateLimit() {
	limiter, err := middleware.NewMemoryRateLimiter("1-M")
	suite.Require().NoError(err)
	router := gin.New()
	handlers.RegisterStoreRoutes(router, suite.mockCart, suite.mockOrder, middleware.RateLimit(limiter))
	suite.mockCart.On("Get", mock.Anything, "cart-1").Return(cart.State{Items: []cart.Item{}}, nil)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/store/carts/cart-1", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/store/carts/cart-1", nil))

	suite.Equal(http.StatusOK, first.Code)
	suite.Equal(http.StatusTooManyRequests, second.Code)
}

func TestStoreHandlers(t *testing.T) {
	suite.Run(t, new(StoreHandlerTestSuite))
}
