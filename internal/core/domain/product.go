package domain

import "github.com/shopspring/decimal"

// DefaultTaxRate is applied to products created without an explicit rate.
var DefaultTaxRate = decimal.RequireFromString("0.15")

// Product is a sellable catalogue item with its own stock counters.
type Product struct {
	ProductID    string          `json:"productID"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	CurrentStock int             `json:"currentStock"`
	MinStock     int             `json:"minStock"`
	MaxStock     int             `json:"maxStock"`
	InStock      bool            `json:"inStock"`
	AuditFields
}

// SetStock updates the stock counter and keeps InStock in sync with it.
func (p *Product) SetStock(stock int) {
	if stock < 0 {
		stock = 0
	}
	p.CurrentStock = stock
	p.InStock = stock > 0
}

// IsLowStock reports whether the product is at or below its reorder level.
func (p Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStock
}
