package services

import (
	"context"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
)

// POSReaderSvc defines read operations for till receipts
type POSReaderSvc interface {
	// GetTransaction retrieves a transaction with its items.
	GetTransaction(ctx context.Context, transactionID string) (*domain.POSTransaction, error)

	// ListTransactions retrieves a page of transactions, newest first.
	ListTransactions(ctx context.Context, params dto.ListPOSTransactionsParams) (*dto.ListPOSTransactionsResponse, error)
}

// POSWriterSvc defines the till workflows. Each call is a single atomic unit.
type POSWriterSvc interface {
	// CreateTransaction rings up a sale, decrements stock and writes the ledger.
	CreateTransaction(ctx context.Context, req dto.CreatePOSTransactionRequest, staffID string) (*domain.POSTransaction, error)

	// RefundTransaction records a refund against a completed sale and restores refunded stock.
	RefundTransaction(ctx context.Context, transactionID string, req dto.RefundRequest, staffID string) (*domain.POSTransaction, error)
}

// POSSvcFacade combines all POS service interfaces
type POSSvcFacade interface {
	POSReaderSvc
	POSWriterSvc
}

// InventorySvcFacade defines manual stock operations and the ledger view.
type InventorySvcFacade interface {
	AdjustStock(ctx context.Context, req dto.AdjustInventoryRequest, staffID string) (*dto.AdjustInventoryResponse, error)
	ListMovements(ctx context.Context, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)
}
