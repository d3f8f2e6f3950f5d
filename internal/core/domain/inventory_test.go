package domain_test

import (
	"math"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestApplyAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		adjType   domain.AdjustmentType
		quantity  int
		wantStock int
		wantDelta int
		wantErr   bool
	}{
		{name: "increase", current: 10, adjType: domain.AdjustIncrease, quantity: 5, wantStock: 15, wantDelta: 5},
		{name: "decrease", current: 10, adjType: domain.AdjustDecrease, quantity: 4, wantStock: 6, wantDelta: -4},
		{name: "decrease floors at zero", current: 3, adjType: domain.AdjustDecrease, quantity: 5, wantStock: 0, wantDelta: -3},
		{name: "set up", current: 3, adjType: domain.AdjustSet, quantity: 20, wantStock: 20, wantDelta: 17},
		{name: "set down", current: 7, adjType: domain.AdjustSet, quantity: 2, wantStock: 2, wantDelta: -5},
		{name: "set to same value", current: 7, adjType: domain.AdjustSet, quantity: 7, wantStock: 7, wantDelta: 0},
		{name: "negative quantity", current: 7, adjType: domain.AdjustIncrease, quantity: -1, wantErr: true},
		{name: "increase past column range", current: 5, adjType: domain.AdjustIncrease, quantity: domain.MaxQuantity - 4, wantErr: true},
		{name: "increase to column range", current: 5, adjType: domain.AdjustIncrease, quantity: domain.MaxQuantity - 5, wantStock: domain.MaxQuantity, wantDelta: domain.MaxQuantity - 5},
		{name: "increase by max int", current: 5, adjType: domain.AdjustIncrease, quantity: math.MaxInt, wantErr: true},
		{name: "set above column range", current: 5, adjType: domain.AdjustSet, quantity: domain.MaxQuantity + 1, wantErr: true},
		{name: "unknown type", current: 7, adjType: domain.AdjustmentType("multiply"), quantity: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock, delta, err := domain.ApplyAdjustment(tt.current, tt.adjType, tt.quantity)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStock, stock)
			assert.Equal(t, tt.wantDelta, delta)
			assert.Equal(t, tt.current+delta, stock)
		})
	}
}

func TestMovementTypeForReason(t *testing.T) {
	cases := map[string]domain.InventoryTransactionType{
		"restocking":     domain.InventoryPurchase,
		"sale":           domain.InventorySale,
		"damage":         domain.InventoryDamage,
		"return":         domain.InventoryReturn,
		"correction":     domain.InventoryAdjustment,
		"expired":        domain.InventoryDamage,
		" Restocking ":   domain.InventoryPurchase,
		"stock take":     domain.InventoryAdjustment,
		"":               domain.InventoryAdjustment,
	}
	for reason, want := range cases {
		assert.Equal(t, want, domain.MovementTypeForReason(reason), "reason %q", reason)
	}
}

func TestProduct_SetStock(t *testing.T) {
	p := domain.Product{}
	p.SetStock(4)
	assert.Equal(t, 4, p.CurrentStock)
	assert.True(t, p.InStock)

	p.SetStock(0)
	assert.False(t, p.InStock)

	p.SetStock(-2)
	assert.Equal(t, 0, p.CurrentStock)
	assert.False(t, p.InStock)
}

func TestCustomer_AdjustLoyalty(t *testing.T) {
	c := domain.Customer{LoyaltyPoints: 5}
	c.AdjustLoyalty(11)
	assert.Equal(t, 16, c.LoyaltyPoints)
	c.AdjustLoyalty(-20)
	assert.Equal(t, 0, c.LoyaltyPoints)
}
