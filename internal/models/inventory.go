package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTransaction is a row of the append-only inventory_transactions ledger.
type InventoryTransaction struct {
	InventoryTransactionID string              `db:"inventory_transaction_id"`
	ProductID              string              `db:"product_id"`
	Type                   string              `db:"type"`
	Quantity               int                 `db:"quantity"`
	PreviousStock          int                 `db:"previous_stock"`
	NewStock               int                 `db:"new_stock"`
	Reason                 string              `db:"reason"`
	Notes                  string              `db:"notes"`
	UnitCost               decimal.NullDecimal `db:"unit_cost"`    // Nullable
	ReferenceID            sql.NullString      `db:"reference_id"` // Nullable
	ReferenceType          string              `db:"reference_type"`
	PerformedBy            string              `db:"performed_by"`
	CreatedAt              time.Time           `db:"created_at"`
}
