package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/beanline/coffee_backoffice/internal/dto"
)

// parseLine splits "productID:quantity" or "productID:quantity@unitPrice".
func parseLine(raw string) (string, int, *decimal.Decimal, error) {
	entry, priceText, hasPrice := strings.Cut(raw, "@")
	productID, qtyText, ok := strings.Cut(entry, ":")
	if !ok || productID == "" {
		return "", 0, nil, fmt.Errorf("item %q must look like productID:quantity", raw)
	}
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty <= 0 {
		return "", 0, nil, fmt.Errorf("item %q has an invalid quantity", raw)
	}
	if !hasPrice {
		return productID, qty, nil, nil
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return "", 0, nil, fmt.Errorf("item %q has an invalid price: %w", raw, err)
	}
	return productID, qty, &price, nil
}

func parseSaleItems(raw []string) ([]dto.POSItemRequest, error) {
	items := make([]dto.POSItemRequest, 0, len(raw))
	for _, r := range raw {
		productID, qty, price, err := parseLine(r)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.POSItemRequest{ProductID: productID, Quantity: qty, UnitPrice: price})
	}
	return items, nil
}

func parseRefundItems(raw []string) ([]dto.RefundItemRequest, error) {
	items := make([]dto.RefundItemRequest, 0, len(raw))
	for _, r := range raw {
		productID, qty, price, err := parseLine(r)
		if err != nil {
			return nil, err
		}
		if price != nil {
			return nil, fmt.Errorf("refund item %q cannot carry a price", r)
		}
		items = append(items, dto.RefundItemRequest{ProductID: productID, Quantity: qty})
	}
	return items, nil
}

// optionalDecimal parses a flag value, treating "" as unset.
func optionalDecimal(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
