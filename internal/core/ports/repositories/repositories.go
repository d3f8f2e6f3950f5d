package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ProductRepo     ProductRepositoryFacade
	POSRepo         POSTransactionRepositoryFacade
	InventoryRepo   InventoryLedgerFacade
	CustomerRepo    CustomerRepositoryFacade
	OrderRepo       OrderRepositoryFacade
	ActivityLogRepo ActivityLogRepositoryFacade
	UserRepo        UserRepositoryFacade
	DashboardRepo   DashboardReader
	UnitOfWork      UnitOfWork
}
