package dto

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AdjustInventoryRequest is a manual stock correction.
// Quantity is a pointer so that an explicit zero is accepted by `required`.
type AdjustInventoryRequest struct {
	ProductID string                `json:"productID" binding:"required"`
	Type      domain.AdjustmentType `json:"type" binding:"required,oneof=increase decrease set"`
	Quantity  *int                  `json:"quantity" binding:"required,gte=0,lte=2147483647"`
	Reason    string                `json:"reason" binding:"required"`
	Notes     string                `json:"notes,omitempty"`
	UnitCost  *decimal.Decimal      `json:"unitCost,omitempty" binding:"omitempty,gte=0"`
}

// AdjustInventoryResponse returns the product after adjustment and the ledger entry written.
type AdjustInventoryResponse struct {
	Product     domain.Product              `json:"product"`
	Transaction domain.InventoryTransaction `json:"transaction"`
}

// ListMovementsParams defines query parameters for a product's stock ledger.
type ListMovementsParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListMovementsResponse is a page of ledger entries.
type ListMovementsResponse struct {
	Movements []domain.InventoryTransaction `json:"movements"`
	NextToken *string                       `json:"nextToken,omitempty"`
}
