package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a row of the orders table.
type Order struct {
	OrderID         string          `db:"order_id"`
	OrderNumber     string          `db:"order_number"`
	CustomerID      sql.NullString  `db:"customer_id"` // Nullable, guest checkout
	CustomerName    string          `db:"customer_name"`
	CustomerEmail   string          `db:"customer_email"`
	Status          string          `db:"status"`
	PaymentStatus   string          `db:"payment_status"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	Tax             decimal.Decimal `db:"tax"`
	ShippingFee     decimal.Decimal `db:"shipping_fee"`
	Total           decimal.Decimal `db:"total"`
	ShippingAddress string          `db:"shipping_address"`
	Notes           string          `db:"notes"`
	AuditFields
}

// OrderItem is a row of the order_items table.
type OrderItem struct {
	OrderItemID string          `db:"order_item_id"`
	OrderID     string          `db:"order_id"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total"`
	CreatedAt   time.Time       `db:"created_at"`
}
