package pgsql

import (
	"context"
	"fmt"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/models"
	"github.com/beanline/coffee_backoffice/internal/utils/mapping"
	"github.com/beanline/coffee_backoffice/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// PgxInventoryLedgerRepository appends to and reads the stock ledger.
// Entries are never updated or deleted.
type PgxInventoryLedgerRepository struct {
	db querier
}

func newPgxInventoryLedgerRepository(db querier) *PgxInventoryLedgerRepository {
	return &PgxInventoryLedgerRepository{db: db}
}

var _ portsrepo.InventoryLedgerFacade = (*PgxInventoryLedgerRepository)(nil)

const inventoryColumns = `inventory_transaction_id, product_id, type, quantity, previous_stock, new_stock, reason, notes,
	unit_cost, reference_id, reference_type, performed_by, created_at`

// AppendInventoryTransactions inserts all entries in one batch.
func (r *PgxInventoryLedgerRepository) AppendInventoryTransactions(ctx context.Context, entries ...domain.InventoryTransaction) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO inventory_transactions (` + inventoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	for _, e := range entries {
		m := mapping.ToModelInventoryTransaction(e)
		batch.Queue(query,
			m.InventoryTransactionID,
			m.ProductID,
			m.Type,
			m.Quantity,
			m.PreviousStock,
			m.NewStock,
			m.Reason,
			m.Notes,
			m.UnitCost,
			m.ReferenceID,
			m.ReferenceType,
			m.PerformedBy,
			m.CreatedAt,
		)
	}
	return execBatch(ctx, r.db, batch, "inventory transaction")
}

// ListInventoryTransactionsByProduct retrieves a page of ledger entries for a product, newest first.
func (r *PgxInventoryLedgerRepository) ListInventoryTransactionsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.InventoryTransaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	fetchLimit := limit + 1

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query := `
			SELECT ` + inventoryColumns + `
			FROM inventory_transactions
			WHERE product_id = $1 AND (created_at, inventory_transaction_id) < ($2, $3)
			ORDER BY created_at DESC, inventory_transaction_id DESC
			LIMIT $4;
		`
		rows, err = r.db.Query(ctx, query, productID, cursor.CreatedAt, cursor.ID, fetchLimit)
	} else {
		query := `
			SELECT ` + inventoryColumns + `
			FROM inventory_transactions
			WHERE product_id = $1
			ORDER BY created_at DESC, inventory_transaction_id DESC
			LIMIT $2;
		`
		rows, err = r.db.Query(ctx, query, productID, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query inventory transactions for product "+productID, err)
	}
	defer rows.Close()

	entries := make([]domain.InventoryTransaction, 0, fetchLimit)
	for rows.Next() {
		var m models.InventoryTransaction
		if err := rows.Scan(
			&m.InventoryTransactionID,
			&m.ProductID,
			&m.Type,
			&m.Quantity,
			&m.PreviousStock,
			&m.NewStock,
			&m.Reason,
			&m.Notes,
			&m.UnitCost,
			&m.ReferenceID,
			&m.ReferenceType,
			&m.PerformedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan inventory transaction: %w", err)
		}
		entries = append(entries, mapping.ToDomainInventoryTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating inventory transactions: %w", err)
	}

	page, token := pagination.Page(entries, limit, func(e domain.InventoryTransaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.InventoryTransactionID}
	})
	return page, token, nil
}
