package cart_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/cart"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	ethiopia = cart.Product{ProductID: "p-eth", Name: "Yirgacheffe 250g", Price: decimal.RequireFromString("12.50")}
	colombia = cart.Product{ProductID: "p-col", Name: "Huila 250g", Price: decimal.RequireFromString("9.99")}
)

func TestReduce_AddMergesByProduct(t *testing.T) {
	s := cart.Reduce(cart.Empty(), cart.AddItem(ethiopia, 2))
	s = cart.Reduce(s, cart.AddItem(ethiopia, 3))

	require.Len(t, s.Items, 1)
	assert.Equal(t, 5, s.Items[0].Quantity)
	assert.Equal(t, 5, s.ItemCount)
	assert.True(t, decimal.RequireFromString("62.50").Equal(s.Total), "total should be 5 x 12.50, got %s", s.Total)
}

func TestReduce_AddZeroQuantityCountsAsOne(t *testing.T) {
	s := cart.Reduce(cart.Empty(), cart.AddItem(colombia, 0))
	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.ItemCount)
}

func TestReduce_SetQuantityAndRemove(t *testing.T) {
	s := cart.Reduce(cart.Empty(), cart.AddItem(ethiopia, 1))
	s = cart.Reduce(s, cart.AddItem(colombia, 2))

	s = cart.Reduce(s, cart.SetQuantity(colombia.ProductID, 4))
	assert.Equal(t, 5, s.ItemCount)
	assert.True(t, decimal.RequireFromString("52.46").Equal(s.Total), "got %s", s.Total)

	s = cart.Reduce(s, cart.SetQuantity(colombia.ProductID, 0))
	require.Len(t, s.Items, 1)
	assert.Equal(t, ethiopia.ProductID, s.Items[0].Product.ProductID)

	s = cart.Reduce(s, cart.RemoveItem(ethiopia.ProductID))
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.ItemCount)
	assert.True(t, s.Total.IsZero())
}

func TestReduce_SetQuantityUnknownProductIsNoop(t *testing.T) {
	s := cart.Reduce(cart.Empty(), cart.AddItem(ethiopia, 1))
	next := cart.Reduce(s, cart.SetQuantity("missing", 3))
	assert.Equal(t, s.ItemCount, next.ItemCount)
	assert.Len(t, next.Items, 1)
}

func TestReduce_Clear(t *testing.T) {
	s := cart.Reduce(cart.Empty(), cart.AddItem(ethiopia, 3))
	s = cart.Reduce(s, cart.Clear())
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.ItemCount)
	assert.True(t, s.Total.IsZero())
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := cart.Reduce(cart.Empty(), cart.AddItem(ethiopia, 1))
	_ = cart.Reduce(before, cart.AddItem(ethiopia, 4))
	_ = cart.Reduce(before, cart.RemoveItem(ethiopia.ProductID))

	require.Len(t, before.Items, 1)
	assert.Equal(t, 1, before.Items[0].Quantity)
}

func TestReduce_RecomputesStaleTotals(t *testing.T) {
	stale := cart.State{
		Items:     []cart.Item{{Product: colombia, Quantity: 2}},
		Total:     decimal.NewFromInt(1000),
		ItemCount: 99,
	}
	s := cart.Reduce(stale, cart.AddItem(ethiopia, 1))
	assert.Equal(t, 3, s.ItemCount)
	assert.True(t, decimal.RequireFromString("32.48").Equal(s.Total), "got %s", s.Total)
}

func TestRehydrate_IgnoresStoredAggregates(t *testing.T) {
	raw := []byte(`{"items":[{"product":{"productID":"p-col","name":"Huila 250g","price":"9.99"},"quantity":3}],"total":"1.00","itemCount":42}`)

	s, err := cart.Rehydrate(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, s.ItemCount)
	assert.True(t, decimal.RequireFromString("29.97").Equal(s.Total), "got %s", s.Total)
}

func TestRehydrate_DropsInvalidLines(t *testing.T) {
	raw := []byte(`{"items":[{"product":{"productID":"p-col","price":"9.99"},"quantity":0},{"product":{"productID":"","price":"1"},"quantity":1}]}`)
	s, err := cart.Rehydrate(raw)
	require.NoError(t, err)
	assert.Empty(t, s.Items)
}

func TestRehydrate_MergesRepeatedProducts(t *testing.T) {
	raw := []byte(`{"items":[` +
		`{"product":{"productID":"p-col","name":"Huila 250g","price":"9.99"},"quantity":1},` +
		`{"product":{"productID":"p-eth","name":"Yirgacheffe 250g","price":"12.50"},"quantity":1},` +
		`{"product":{"productID":"p-col","name":"Huila 250g","price":"9.99"},"quantity":2}]}`)

	s, err := cart.Rehydrate(raw)
	require.NoError(t, err)
	require.Len(t, s.Items, 2)
	assert.Equal(t, "p-col", s.Items[0].Product.ProductID)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.Equal(t, 4, s.ItemCount)

	s = cart.Reduce(s, cart.SetQuantity("p-col", 1))
	require.Len(t, s.Items, 2)
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("22.49").Equal(s.Total), "got %s", s.Total)
}

func TestRehydrate_EmptyAndCorrupt(t *testing.T) {
	s, err := cart.Rehydrate(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Items)

	_, err = cart.Rehydrate([]byte("{not json"))
	assert.Error(t, err)
}

func TestSnapshotShape(t *testing.T) {
	data, err := cart.Snapshot(cart.Reduce(cart.Empty(), cart.AddItem(colombia, 2)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "items")
	assert.Equal(t, "19.98", decoded["total"])
	assert.EqualValues(t, 2, decoded["itemCount"])

	empty, err := cart.Snapshot(cart.State{})
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"items":[]`)
}

// --- Mock ProductLookup ---
type MockProductLookup struct {
	mock.Mock
}

func (m *MockProductLookup) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type CartServiceTestSuite struct {
	suite.Suite
	products *MockProductLookup
	store    *cart.MemoryStore
	service  *cart.Service
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.products = new(MockProductLookup)
	suite.store = cart.NewMemoryStore()
	suite.service = cart.NewService(suite.store, suite.products)
}

func (suite *CartServiceTestSuite) TestAddItemPersistsSnapshot() {
	ctx := context.Background()
	suite.products.On("FindProductByID", ctx, "p-eth").Return(&domain.Product{
		ProductID: "p-eth", Name: "Yirgacheffe 250g", Price: decimal.RequireFromString("12.50"),
	}, nil).Twice()

	_, err := suite.service.AddItem(ctx, "cart-1", "p-eth", 2)
	suite.Require().NoError(err)
	state, err := suite.service.AddItem(ctx, "cart-1", "p-eth", 3)
	suite.Require().NoError(err)
	suite.Equal(5, state.ItemCount)

	reloaded, err := suite.service.Get(ctx, "cart-1")
	suite.Require().NoError(err)
	suite.Equal(5, reloaded.ItemCount)
	suite.True(decimal.RequireFromString("62.50").Equal(reloaded.Total))
	suite.products.AssertExpectations(suite.T())
}

func (suite *CartServiceTestSuite) TestAddUnknownProduct() {
	ctx := context.Background()
	suite.products.On("FindProductByID", ctx, "nope").Return(nil, apperrors.ErrProductNotFound).Once()

	_, err := suite.service.AddItem(ctx, "cart-1", "nope", 1)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	data, err := suite.store.Load(ctx, "cart-1")
	suite.Require().NoError(err)
	suite.Nil(data)
}

func (suite *CartServiceTestSuite) TestSetQuantityRemoveAndClear() {
	ctx := context.Background()
	suite.products.On("FindProductByID", ctx, "p-col").Return(&domain.Product{
		ProductID: "p-col", Name: "Huila 250g", Price: decimal.RequireFromString("9.99"),
	}, nil).Once()

	_, err := suite.service.AddItem(ctx, "cart-2", "p-col", 1)
	suite.Require().NoError(err)

	state, err := suite.service.SetQuantity(ctx, "cart-2", "p-col", 3)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("29.97").Equal(state.Total))

	state, err = suite.service.RemoveItem(ctx, "cart-2", "p-col")
	suite.Require().NoError(err)
	suite.Empty(state.Items)

	_, err = suite.service.Clear(ctx, "cart-2")
	suite.Require().NoError(err)
	data, err := suite.store.Load(ctx, "cart-2")
	suite.Require().NoError(err)
	suite.Nil(data)
}

func (suite *CartServiceTestSuite) TestCorruptSnapshotIsReplaced() {
	ctx := context.Background()
	suite.Require().NoError(suite.store.Save(ctx, "cart-3", []byte("garbage")))

	state, err := suite.service.Get(ctx, "cart-3")
	suite.Require().NoError(err)
	suite.Empty(state.Items)
}

func (suite *CartServiceTestSuite) TestConcurrentAddsAreNotLost() {
	ctx := context.Background()
	const shoppers = 20
	suite.products.On("FindProductByID", ctx, "p-eth").Return(&domain.Product{
		ProductID: "p-eth", Name: "Yirgacheffe 250g", Price: decimal.RequireFromString("12.50"),
	}, nil).Times(shoppers)

	var wg sync.WaitGroup
	for i := 0; i < shoppers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.AddItem(ctx, "cart-4", "p-eth", 1)
			suite.NoError(err)
		}()
	}
	wg.Wait()

	state, err := suite.service.Get(ctx, "cart-4")
	suite.Require().NoError(err)
	suite.Require().Len(state.Items, 1)
	suite.Equal(shoppers, state.ItemCount)
	suite.True(decimal.RequireFromString("250.00").Equal(state.Total), "got %s", state.Total)
}

func (suite *CartServiceTestSuite) TestQuantityAboveLimitIsRejected() {
	ctx := context.Background()
	suite.products.On("FindProductByID", ctx, "p-col").Return(&domain.Product{
		ProductID: "p-col", Name: "Huila 250g", Price: decimal.RequireFromString("9.99"),
	}, nil).Once()

	_, err := suite.service.AddItem(ctx, "cart-5", "p-col", domain.MaxQuantity+1)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.AddItem(ctx, "cart-5", "p-col", 1)
	suite.Require().NoError(err)
	_, err = suite.service.SetQuantity(ctx, "cart-5", "p-col", domain.MaxQuantity+1)
	suite.ErrorIs(err, apperrors.ErrValidation)

	state, err := suite.service.Get(ctx, "cart-5")
	suite.Require().NoError(err)
	suite.Equal(1, state.ItemCount)
}

func (suite *CartServiceTestSuite) TestInvalidCartID() {
	_, err := suite.service.Get(context.Background(), " ")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
