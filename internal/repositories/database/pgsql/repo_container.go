package pgsql

import (
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo:     newPgxProductRepository(dbPool),
		POSRepo:         newPgxPOSTransactionRepository(dbPool),
		InventoryRepo:   newPgxInventoryLedgerRepository(dbPool),
		CustomerRepo:    newPgxCustomerRepository(dbPool),
		OrderRepo:       newPgxOrderRepository(dbPool),
		ActivityLogRepo: newPgxActivityLogRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		DashboardRepo:   newPgxDashboardRepository(dbPool),
		UnitOfWork:      newPgxUnitOfWork(dbPool),
	}
}
