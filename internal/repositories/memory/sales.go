package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/utils/pagination"
)

func (r *Repository) SavePOSTransaction(_ context.Context, txn domain.POSTransaction) error {
	return r.write(func(d *data) error {
		if _, exists := d.posTxns[txn.TransactionID]; exists {
			return fmt.Errorf("%w: POS transaction %s already exists", apperrors.ErrDuplicate, txn.TransactionID)
		}
		for _, existing := range d.posTxns {
			if existing.TransactionNumber == txn.TransactionNumber {
				return fmt.Errorf("%w: transaction number %s already used", apperrors.ErrDuplicate, txn.TransactionNumber)
			}
		}
		if txn.CustomerID != nil {
			if _, ok := d.customers[*txn.CustomerID]; !ok {
				return fmt.Errorf("customer %s does not exist", *txn.CustomerID)
			}
		}
		d.posTxns[txn.TransactionID] = copyPOSTransaction(txn)
		return nil
	})
}

func (r *Repository) FindPOSTransactionByID(_ context.Context, transactionID string) (*domain.POSTransaction, error) {
	var (
		t  domain.POSTransaction
		ok bool
	)
	r.read(func(d *data) {
		t, ok = d.posTxns[transactionID]
		t = copyPOSTransaction(t)
	})
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *Repository) FindPOSTransactionForUpdate(ctx context.Context, transactionID string) (*domain.POSTransaction, error) {
	return r.FindPOSTransactionByID(ctx, transactionID)
}

func (r *Repository) ListPOSTransactions(_ context.Context, limit int, nextToken *string) ([]domain.POSTransaction, *string, error) {
	var all []domain.POSTransaction
	r.read(func(d *data) {
		for _, t := range d.posTxns {
			t.Items = nil
			all = append(all, t)
		}
	})
	return pageNewestFirst(all, limit, nextToken, func(t domain.POSTransaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: t.CreatedAt, ID: t.TransactionID}
	})
}

func (r *Repository) ListRefundsForTransaction(_ context.Context, originalTransactionID string) ([]domain.POSTransaction, error) {
	refunds := make([]domain.POSTransaction, 0)
	r.read(func(d *data) {
		for _, t := range d.posTxns {
			if t.OriginalTransactionID != nil && *t.OriginalTransactionID == originalTransactionID {
				refunds = append(refunds, copyPOSTransaction(t))
			}
		}
	})
	sort.Slice(refunds, func(i, j int) bool {
		if !refunds[i].CreatedAt.Equal(refunds[j].CreatedAt) {
			return refunds[i].CreatedAt.Before(refunds[j].CreatedAt)
		}
		return refunds[i].TransactionID < refunds[j].TransactionID
	})
	return refunds, nil
}

func (r *Repository) UpdatePOSTransactionStatus(_ context.Context, transactionID string, status domain.POSStatus, updatedBy string, updatedAt time.Time) error {
	return r.write(func(d *data) error {
		t, ok := d.posTxns[transactionID]
		if !ok {
			return apperrors.ErrNotFound
		}
		t.Status = status
		t.Touch(updatedBy, updatedAt)
		d.posTxns[transactionID] = t
		return nil
	})
}

func (r *Repository) AppendInventoryTransactions(_ context.Context, entries ...domain.InventoryTransaction) error {
	return r.write(func(d *data) error {
		for _, e := range entries {
			if _, ok := d.products[e.ProductID]; !ok {
				return apperrors.ErrProductNotFound
			}
		}
		d.inventory = append(d.inventory, entries...)
		return nil
	})
}

func (r *Repository) ListInventoryTransactionsByProduct(_ context.Context, productID string, limit int, nextToken *string) ([]domain.InventoryTransaction, *string, error) {
	var entries []domain.InventoryTransaction
	r.read(func(d *data) {
		for _, e := range d.inventory {
			if e.ProductID == productID {
				entries = append(entries, e)
			}
		}
	})
	return pageNewestFirst(entries, limit, nextToken, func(e domain.InventoryTransaction) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.InventoryTransactionID}
	})
}

func (r *Repository) AppendActivityLog(_ context.Context, entry domain.ActivityLog) error {
	return r.write(func(d *data) error {
		d.activity = append(d.activity, entry)
		return nil
	})
}

func (r *Repository) ListActivityLogs(_ context.Context, limit int, nextToken *string) ([]domain.ActivityLog, *string, error) {
	var logs []domain.ActivityLog
	r.read(func(d *data) { logs = append(logs, d.activity...) })
	return pageNewestFirst(logs, limit, nextToken, func(l domain.ActivityLog) pagination.Cursor {
		return pagination.Cursor{CreatedAt: l.CreatedAt, ID: l.ActivityID}
	})
}

// pageNewestFirst orders rows by (created_at DESC, id DESC) and returns the
// page after the cursor in nextToken, mirroring the SQL keyset queries.
func pageNewestFirst[T any](rows []T, limit int, nextToken *string, cursorOf func(T) pagination.Cursor) ([]T, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	sort.Slice(rows, func(i, j int) bool {
		return after(cursorOf(rows[i]), cursorOf(rows[j]))
	})

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		start := len(rows)
		for i, row := range rows {
			if after(cursor, cursorOf(row)) {
				start = i
				break
			}
		}
		rows = rows[start:]
	}

	if len(rows) > limit+1 {
		rows = rows[:limit+1]
	}
	page, token := pagination.Page(rows, limit, cursorOf)
	if page == nil {
		page = []T{}
	}
	return page, token, nil
}

// after reports whether a sorts before b in newest-first order.
func after(a, b pagination.Cursor) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
