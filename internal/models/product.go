package models

import "github.com/shopspring/decimal"

// Product is a row of the products table.
type Product struct {
	ProductID    string          `db:"product_id"`
	Name         string          `db:"name"`
	Brand        string          `db:"brand"`
	Category     string          `db:"category"`
	Description  string          `db:"description"`
	Price        decimal.Decimal `db:"price"`
	CostPrice    decimal.Decimal `db:"cost_price"`
	TaxRate      decimal.Decimal `db:"tax_rate"`
	CurrentStock int             `db:"current_stock"`
	MinStock     int             `db:"min_stock"`
	MaxStock     int             `db:"max_stock"`
	InStock      bool            `db:"in_stock"`
	AuditFields
}
