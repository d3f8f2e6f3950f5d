package pgsql

import (
	"context"
	"log/slog"

	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork runs a callback inside one pgx transaction with repositories bound to it.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

func (u *PgxUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// No-op once the transaction has been committed.
		if rbErr := u.Rollback(ctx, tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, txRepositories(tx)); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

func txRepositories(tx pgx.Tx) portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Products:        newPgxProductRepository(tx),
		POSTransactions: newPgxPOSTransactionRepository(tx),
		Inventory:       newPgxInventoryLedgerRepository(tx),
		Customers:       newPgxCustomerRepository(tx),
		Orders:          newPgxOrderRepository(tx),
		ActivityLogs:    newPgxActivityLogRepository(tx),
	}
}
