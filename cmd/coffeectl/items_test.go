package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSaleItems(t *testing.T) {
	items, err := parseSaleItems([]string{"espresso:2", "kenya:1@18.50"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "espresso", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Nil(t, items[0].UnitPrice)

	require.NotNil(t, items[1].UnitPrice)
	assert.True(t, items[1].UnitPrice.Equal(decimal.RequireFromString("18.50")))
}

func TestParseSaleItems_Invalid(t *testing.T) {
	for _, raw := range []string{"espresso", ":2", "espresso:0", "espresso:two", "espresso:1@cheap"} {
		_, err := parseSaleItems([]string{raw})
		assert.Error(t, err, raw)
	}
}

func TestParseRefundItems_RejectsPrice(t *testing.T) {
	_, err := parseRefundItems([]string{"espresso:1@2.00"})
	assert.Error(t, err)

	items, err := parseRefundItems([]string{"espresso:1"})
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestOptionalDecimal(t *testing.T) {
	d, err := optionalDecimal("discount", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = optionalDecimal("discount", "1.25")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1.25")))

	_, err = optionalDecimal("discount", "abc")
	assert.Error(t, err)
}
