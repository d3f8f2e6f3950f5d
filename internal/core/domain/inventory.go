package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/shopspring/decimal"
)

// InventoryTransactionType classifies a stock ledger entry.
type InventoryTransactionType string

const (
	InventorySale       InventoryTransactionType = "sale"
	InventoryPurchase   InventoryTransactionType = "purchase"
	InventoryAdjustment InventoryTransactionType = "adjustment"
	InventoryReturn     InventoryTransactionType = "return"
	InventoryDamage     InventoryTransactionType = "damage"
	InventoryRefund     InventoryTransactionType = "refund"
)

// ReferenceType says what kind of record an inventory entry points at.
type ReferenceType string

const (
	ReferencePOSTransaction ReferenceType = "pos_transaction"
	ReferenceOrder          ReferenceType = "order"
	ReferenceManual         ReferenceType = "manual"
)

// InventoryTransaction is an append-only stock ledger entry. Quantity is the
// signed stock delta.
type InventoryTransaction struct {
	InventoryTransactionID string                   `json:"inventoryTransactionID"`
	ProductID              string                   `json:"productID"`
	Type                   InventoryTransactionType `json:"type"`
	Quantity               int                      `json:"quantity"`
	PreviousStock          int                      `json:"previousStock"`
	NewStock               int                      `json:"newStock"`
	Reason                 string                   `json:"reason"`
	Notes                  string                   `json:"notes,omitempty"`
	UnitCost               *decimal.Decimal         `json:"unitCost,omitempty"`
	ReferenceID            *string                  `json:"referenceID,omitempty"`
	ReferenceType          ReferenceType            `json:"referenceType"`
	PerformedBy            string                   `json:"performedBy"`
	CreatedAt              time.Time                `json:"createdAt"`
}

// AdjustmentType is the kind of manual stock correction.
type AdjustmentType string

const (
	AdjustIncrease AdjustmentType = "increase"
	AdjustDecrease AdjustmentType = "decrease"
	AdjustSet      AdjustmentType = "set"
)

// MaxQuantity is the largest stock level or line quantity the store accepts.
// Stock columns are 32-bit integers.
const MaxQuantity = math.MaxInt32

// ApplyAdjustment returns the new stock level and the signed delta actually
// applied. Decreases are floored at zero, so the delta is what was really removed.
func ApplyAdjustment(current int, adjType AdjustmentType, quantity int) (newStock int, delta int, err error) {
	if quantity < 0 {
		return 0, 0, fmt.Errorf("%w: quantity must not be negative", apperrors.ErrValidation)
	}
	if quantity > MaxQuantity {
		return 0, 0, fmt.Errorf("%w: quantity must not exceed %d", apperrors.ErrValidation, MaxQuantity)
	}
	switch adjType {
	case AdjustIncrease:
		if current > MaxQuantity-quantity {
			return 0, 0, fmt.Errorf("%w: stock of %d plus %d would exceed %d", apperrors.ErrValidation, current, quantity, MaxQuantity)
		}
		newStock = current + quantity
	case AdjustDecrease:
		newStock = current - quantity
		if newStock < 0 {
			newStock = 0
		}
	case AdjustSet:
		newStock = quantity
	default:
		return 0, 0, fmt.Errorf("%w: unknown adjustment type %q", apperrors.ErrValidation, adjType)
	}
	return newStock, newStock - current, nil
}

var reasonTypes = map[string]InventoryTransactionType{
	"restocking": InventoryPurchase,
	"sale":       InventorySale,
	"damage":     InventoryDamage,
	"return":     InventoryReturn,
	"correction": InventoryAdjustment,
	"expired":    InventoryDamage,
}

// MovementTypeForReason maps a free-text adjustment reason to a ledger type.
func MovementTypeForReason(reason string) InventoryTransactionType {
	if t, ok := reasonTypes[strings.ToLower(strings.TrimSpace(reason))]; ok {
		return t
	}
	return InventoryAdjustment
}
