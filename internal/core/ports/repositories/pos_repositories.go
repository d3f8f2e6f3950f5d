package repositories

import (
	"context"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
)

// POSTransactionReader defines read operations for POS receipts
type POSTransactionReader interface {
	// FindPOSTransactionByID retrieves a transaction with its items.
	FindPOSTransactionByID(ctx context.Context, transactionID string) (*domain.POSTransaction, error)

	// ListPOSTransactions retrieves a page of transactions, newest first, using token-based pagination.
	ListPOSTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.POSTransaction, *string, error)

	// ListRefundsForTransaction retrieves all refund transactions (with items) of an original sale.
	ListRefundsForTransaction(ctx context.Context, originalTransactionID string) ([]domain.POSTransaction, error)
}

// POSTransactionWriter defines write operations for POS receipts
type POSTransactionWriter interface {
	// SavePOSTransaction inserts the header and every item.
	SavePOSTransaction(ctx context.Context, txn domain.POSTransaction) error

	// FindPOSTransactionForUpdate reads a transaction with its items and locks the header row.
	FindPOSTransactionForUpdate(ctx context.Context, transactionID string) (*domain.POSTransaction, error)

	UpdatePOSTransactionStatus(ctx context.Context, transactionID string, status domain.POSStatus, updatedBy string, updatedAt time.Time) error
}

// POSTransactionRepositoryFacade combines all POS repository interfaces
type POSTransactionRepositoryFacade interface {
	POSTransactionReader
	POSTransactionWriter
}

// InventoryLedgerReader defines read operations for the stock ledger
type InventoryLedgerReader interface {
	ListInventoryTransactionsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.InventoryTransaction, *string, error)
}

// InventoryLedgerWriter appends to the stock ledger. Entries are never updated.
type InventoryLedgerWriter interface {
	AppendInventoryTransactions(ctx context.Context, entries ...domain.InventoryTransaction) error
}

// InventoryLedgerFacade combines the ledger interfaces
type InventoryLedgerFacade interface {
	InventoryLedgerReader
	InventoryLedgerWriter
}
