package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PgxDashboardRepository computes the back-office rollups in one round trip.
type PgxDashboardRepository struct {
	db querier
}

func newPgxDashboardRepository(db querier) *PgxDashboardRepository {
	return &PgxDashboardRepository{db: db}
}

var _ portsrepo.DashboardReader = (*PgxDashboardRepository)(nil)

const (
	// Refund rows carry negative totals, so the plain sum is net revenue.
	posTotalsQuery = `
		SELECT
			COALESCE(SUM(total), 0),
			COUNT(*) FILTER (WHERE original_transaction_id IS NULL),
			COALESCE(-SUM(total) FILTER (WHERE original_transaction_id IS NOT NULL), 0)
		FROM pos_transactions
		WHERE status <> 'cancelled';
	`
	orderRevenueQuery = `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE payment_status IN ('paid', 'partially_paid') AND status <> 'cancelled';
	`
	ordersByStatusQuery = `SELECT status, COUNT(*) FROM orders GROUP BY status;`
	customerCountQuery  = `SELECT COUNT(*) FROM customers;`
	lowStockCountQuery  = `SELECT COUNT(*) FROM products WHERE current_stock <= min_stock;`
	topProductsQuery    = `
		SELECT i.product_id, MAX(i.product_name), SUM(i.quantity), COALESCE(SUM(i.line_total), 0)
		FROM pos_transaction_items i
		JOIN pos_transactions t ON t.transaction_id = i.transaction_id
		WHERE t.status <> 'cancelled'
		GROUP BY i.product_id
		HAVING SUM(i.quantity) > 0
		ORDER BY SUM(i.quantity) DESC, i.product_id ASC
		LIMIT $1;
	`
)

// GetDashboardSummary queues every rollup in a single batch.
func (r *PgxDashboardRepository) GetDashboardSummary(ctx context.Context, topProducts int, recentOrders int) (*domain.DashboardSummary, error) {
	batch := &pgx.Batch{}
	batch.Queue(posTotalsQuery)
	batch.Queue(orderRevenueQuery)
	batch.Queue(ordersByStatusQuery)
	batch.Queue(customerCountQuery)
	batch.Queue(lowStockCountQuery)
	batch.Queue(topProductsQuery, topProducts)
	batch.Queue(`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, order_id DESC LIMIT $1;`, recentOrders)

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	summary := &domain.DashboardSummary{
		OrdersByStatus: make(map[string]int),
		TopProducts:    make([]domain.TopProduct, 0, topProducts),
		GeneratedAt:    time.Now().UTC(),
	}

	if err := br.QueryRow().Scan(&summary.POSRevenue, &summary.POSTransactionCount, &summary.RefundTotal); err != nil {
		return nil, fmt.Errorf("failed to compute POS totals: %w", err)
	}
	if err := br.QueryRow().Scan(&summary.OrderRevenue); err != nil {
		return nil, fmt.Errorf("failed to compute order revenue: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order status count: %w", err)
		}
		summary.OrdersByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order status counts: %w", err)
	}

	if err := br.QueryRow().Scan(&summary.CustomerCount); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := br.QueryRow().Scan(&summary.LowStockCount); err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	rows, err = br.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to rank top products: %w", err)
	}
	for rows.Next() {
		var tp domain.TopProduct
		var revenue decimal.Decimal
		if err := rows.Scan(&tp.ProductID, &tp.ProductName, &tp.QuantitySold, &revenue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		tp.Revenue = domain.RoundMoney(revenue)
		summary.TopProducts = append(summary.TopProducts, tp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	rows, err = br.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	recent, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	summary.RecentOrders = recent

	return summary, nil
}
