package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// POSTransaction is a row of pos_transactions. Refund rows carry the
// original transaction ID.
type POSTransaction struct {
	TransactionID         string          `db:"transaction_id"`
	TransactionNumber     string          `db:"transaction_number"`
	CustomerID            sql.NullString  `db:"customer_id"` // Nullable
	StaffID               string          `db:"staff_id"`
	Subtotal              decimal.Decimal `db:"subtotal"`
	Tax                   decimal.Decimal `db:"tax"`
	Discount              decimal.Decimal `db:"discount"`
	Total                 decimal.Decimal `db:"total"`
	PaymentMethod         string          `db:"payment_method"`
	CashReceived          decimal.Decimal `db:"cash_received"`
	ChangeGiven           decimal.Decimal `db:"change_given"`
	CardAmount            decimal.Decimal `db:"card_amount"`
	Status                string          `db:"status"`
	ReceiptPrinted        bool            `db:"receipt_printed"`
	Notes                 string          `db:"notes"`
	OriginalTransactionID sql.NullString  `db:"original_transaction_id"` // Nullable
	RefundReason          string          `db:"refund_reason"`
	AuditFields
}

// POSTransactionItem is a row of pos_transaction_items.
type POSTransactionItem struct {
	ItemID        string          `db:"item_id"`
	TransactionID string          `db:"transaction_id"`
	ProductID     string          `db:"product_id"`
	ProductName   string          `db:"product_name"`
	Quantity      int             `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Discount      decimal.Decimal `db:"discount"`
	LineTotal     decimal.Decimal `db:"line_total"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	CreatedAt     time.Time       `db:"created_at"`
}
