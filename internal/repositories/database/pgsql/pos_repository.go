package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/models"
	"github.com/beanline/coffee_backoffice/internal/utils/mapping"
	"github.com/beanline/coffee_backoffice/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxPOSTransactionRepository struct {
	db querier
}

func newPgxPOSTransactionRepository(db querier) *PgxPOSTransactionRepository {
	return &PgxPOSTransactionRepository{db: db}
}

var _ portsrepo.POSTransactionRepositoryFacade = (*PgxPOSTransactionRepository)(nil)

const posTransactionColumns = `transaction_id, transaction_number, customer_id, staff_id, subtotal, tax, discount, total,
	payment_method, cash_received, change_given, card_amount, status, receipt_printed, notes,
	original_transaction_id, refund_reason, created_at, created_by, last_updated_at, last_updated_by`

const posItemColumns = `item_id, transaction_id, product_id, product_name, quantity, unit_price, discount, line_total, tax_amount, created_at`

func scanPOSTransaction(row pgx.Row) (models.POSTransaction, error) {
	var m models.POSTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionNumber,
		&m.CustomerID,
		&m.StaffID,
		&m.Subtotal,
		&m.Tax,
		&m.Discount,
		&m.Total,
		&m.PaymentMethod,
		&m.CashReceived,
		&m.ChangeGiven,
		&m.CardAmount,
		&m.Status,
		&m.ReceiptPrinted,
		&m.Notes,
		&m.OriginalTransactionID,
		&m.RefundReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SavePOSTransaction inserts the header and queues one insert per item in a single batch.
func (r *PgxPOSTransactionRepository) SavePOSTransaction(ctx context.Context, txn domain.POSTransaction) error {
	m := mapping.ToModelPOSTransaction(txn)
	headerQuery := `
		INSERT INTO pos_transactions (` + posTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		m.TransactionID,
		m.TransactionNumber,
		m.CustomerID,
		m.StaffID,
		m.Subtotal,
		m.Tax,
		m.Discount,
		m.Total,
		m.PaymentMethod,
		m.CashReceived,
		m.ChangeGiven,
		m.CardAmount,
		m.Status,
		m.ReceiptPrinted,
		m.Notes,
		m.OriginalTransactionID,
		m.RefundReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction number %s already used", apperrors.ErrDuplicate, m.TransactionNumber)
		}
		return fmt.Errorf("failed to save POS transaction %s: %w", m.TransactionID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `INSERT INTO pos_transaction_items (` + posItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	for _, item := range txn.Items {
		mi := mapping.ToModelPOSTransactionItem(item)
		batch.Queue(itemQuery,
			mi.ItemID,
			m.TransactionID,
			mi.ProductID,
			mi.ProductName,
			mi.Quantity,
			mi.UnitPrice,
			mi.Discount,
			mi.LineTotal,
			mi.TaxAmount,
			mi.CreatedAt,
		)
	}
	return execBatch(ctx, r.db, batch, "POS transaction item")
}

// FindPOSTransactionByID retrieves a transaction and its items.
func (r *PgxPOSTransactionRepository) FindPOSTransactionByID(ctx context.Context, transactionID string) (*domain.POSTransaction, error) {
	return r.findOne(ctx, `SELECT `+posTransactionColumns+` FROM pos_transactions WHERE transaction_id = $1;`, transactionID)
}

// FindPOSTransactionForUpdate retrieves a transaction with its items and locks the header row.
func (r *PgxPOSTransactionRepository) FindPOSTransactionForUpdate(ctx context.Context, transactionID string) (*domain.POSTransaction, error) {
	return r.findOne(ctx, `SELECT `+posTransactionColumns+` FROM pos_transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID)
}

func (r *PgxPOSTransactionRepository) findOne(ctx context.Context, query, transactionID string) (*domain.POSTransaction, error) {
	m, err := scanPOSTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find POS transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainPOSTransaction(m)

	items, err := r.itemsFor(ctx, []string{txn.TransactionID})
	if err != nil {
		return nil, err
	}
	txn.Items = items[txn.TransactionID]
	return &txn, nil
}

// itemsFor loads the items of several transactions keyed by transaction ID.
func (r *PgxPOSTransactionRepository) itemsFor(ctx context.Context, transactionIDs []string) (map[string][]domain.POSTransactionItem, error) {
	query := `
		SELECT ` + posItemColumns + `
		FROM pos_transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY created_at ASC, item_id ASC;
	`
	rows, err := r.db.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query POS transaction items: %w", err)
	}
	defer rows.Close()

	byTxn := make(map[string][]domain.POSTransactionItem, len(transactionIDs))
	for rows.Next() {
		var mi models.POSTransactionItem
		if err := rows.Scan(
			&mi.ItemID,
			&mi.TransactionID,
			&mi.ProductID,
			&mi.ProductName,
			&mi.Quantity,
			&mi.UnitPrice,
			&mi.Discount,
			&mi.LineTotal,
			&mi.TaxAmount,
			&mi.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan POS transaction item: %w", err)
		}
		byTxn[mi.TransactionID] = append(byTxn[mi.TransactionID], mapping.ToDomainPOSTransactionItem(mi))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating POS transaction items: %w", err)
	}
	return byTxn, nil
}

// ListPOSTransactions retrieves a page of transaction headers, newest first.
func (r *PgxPOSTransactionRepository) ListPOSTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.POSTransaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query := `
			SELECT ` + posTransactionColumns + `
			FROM pos_transactions
			WHERE (created_at, transaction_id) < ($1, $2)
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $3;
		`
		rows, err = r.db.Query(ctx, query, cursor.CreatedAt, cursor.ID, fetchLimit)
	} else {
		query := `
			SELECT ` + posTransactionColumns + `
			FROM pos_transactions
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $1;
		`
		rows, err = r.db.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query POS transactions", err)
	}

	txns, err := collectPOSTransactions(rows)
	if err != nil {
		return nil, nil, err
	}
	page, token := pagination.Page(txns, limit, func(t domain.POSTransaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.TransactionID}
	})
	return page, token, nil
}

// ListRefundsForTransaction retrieves every refund of a sale with its items, oldest first.
func (r *PgxPOSTransactionRepository) ListRefundsForTransaction(ctx context.Context, originalTransactionID string) ([]domain.POSTransaction, error) {
	query := `
		SELECT ` + posTransactionColumns + `
		FROM pos_transactions
		WHERE original_transaction_id = $1
		ORDER BY created_at ASC, transaction_id ASC;
	`
	rows, err := r.db.Query(ctx, query, originalTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query refunds of %s: %w", originalTransactionID, err)
	}
	refunds, err := collectPOSTransactions(rows)
	if err != nil || len(refunds) == 0 {
		return refunds, err
	}

	ids := make([]string, len(refunds))
	for i, t := range refunds {
		ids[i] = t.TransactionID
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range refunds {
		refunds[i].Items = items[refunds[i].TransactionID]
	}
	return refunds, nil
}

// UpdatePOSTransactionStatus changes the lifecycle status of a transaction.
func (r *PgxPOSTransactionRepository) UpdatePOSTransactionStatus(ctx context.Context, transactionID string, status domain.POSStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE pos_transactions
		SET status = $1, last_updated_by = $2, last_updated_at = $3
		WHERE transaction_id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, string(status), updatedBy, updatedAt, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update status of POS transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func collectPOSTransactions(rows pgx.Rows) ([]domain.POSTransaction, error) {
	defer rows.Close()
	txns := make([]domain.POSTransaction, 0)
	for rows.Next() {
		m, err := scanPOSTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan POS transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainPOSTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating POS transaction rows: %w", err)
	}
	return txns, nil
}
