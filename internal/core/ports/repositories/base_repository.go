package repositories

import "context"

// TxRepositories are repositories bound to a single database transaction.
// Everything written through them commits or rolls back together.
type TxRepositories struct {
	Products        ProductRepositoryFacade
	POSTransactions POSTransactionRepositoryFacade
	Inventory       InventoryLedgerFacade
	Customers       CustomerRepositoryFacade
	Orders          OrderRepositoryFacade
	ActivityLogs    ActivityLogRepositoryFacade
}

// UnitOfWork runs fn inside one database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
