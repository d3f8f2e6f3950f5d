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
	"github.com/jackc/pgx/v5"
)

type PgxOrderRepository struct {
	db querier
}

func newPgxOrderRepository(db querier) *PgxOrderRepository {
	return &PgxOrderRepository{db: db}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

const orderColumns = `order_id, order_number, customer_id, customer_name, customer_email, status, payment_status,
	subtotal, tax, shipping_fee, total, shipping_address, notes, created_at, created_by, last_updated_at, last_updated_by`

const orderItemColumns = `order_item_id, order_id, product_id, product_name, quantity, unit_price, line_total, created_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID,
		&m.OrderNumber,
		&m.CustomerID,
		&m.CustomerName,
		&m.CustomerEmail,
		&m.Status,
		&m.PaymentStatus,
		&m.Subtotal,
		&m.Tax,
		&m.ShippingFee,
		&m.Total,
		&m.ShippingAddress,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	orders := make([]domain.Order, 0)
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, mapping.ToDomainOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// SaveOrder inserts the order header and its items.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db.Exec(ctx, query,
		m.OrderID,
		m.OrderNumber,
		m.CustomerID,
		m.CustomerName,
		m.CustomerEmail,
		m.Status,
		m.PaymentStatus,
		m.Subtotal,
		m.Tax,
		m.ShippingFee,
		m.Total,
		m.ShippingAddress,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: order number %s already used", apperrors.ErrDuplicate, m.OrderNumber)
		}
		return fmt.Errorf("failed to save order %s: %w", m.OrderID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `INSERT INTO order_items (` + orderItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, item := range order.Items {
		mi := mapping.ToModelOrderItem(item)
		batch.Queue(itemQuery,
			mi.OrderItemID,
			m.OrderID,
			mi.ProductID,
			mi.ProductName,
			mi.Quantity,
			mi.UnitPrice,
			mi.LineTotal,
			mi.CreatedAt,
		)
	}
	return execBatch(ctx, r.db, batch, "order item")
}

// FindOrderByID retrieves an order with its items.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := r.findHeader(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1;`, orderID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC, order_item_id ASC;`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of order %s: %w", orderID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var mi models.OrderItem
		if err := rows.Scan(
			&mi.OrderItemID,
			&mi.OrderID,
			&mi.ProductID,
			&mi.ProductName,
			&mi.Quantity,
			&mi.UnitPrice,
			&mi.LineTotal,
			&mi.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, mapping.ToDomainOrderItem(mi))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return order, nil
}

// FindOrderForUpdate retrieves an order header and locks its row.
func (r *PgxOrderRepository) FindOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.findHeader(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1 FOR UPDATE;`, orderID)
}

func (r *PgxOrderRepository) findHeader(ctx context.Context, query, orderID string) (*domain.Order, error) {
	m, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	o := mapping.ToDomainOrder(m)
	return &o, nil
}

// ListOrders lists order headers, newest first, optionally filtered by status.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, filter portsrepo.OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := max(filter.Offset, 0)

	var rows pgx.Rows
	var err error
	if filter.Status != nil {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			WHERE status = $1
			ORDER BY created_at DESC, order_id DESC
			LIMIT $2 OFFSET $3;
		`
		rows, err = r.db.Query(ctx, query, string(*filter.Status), limit, offset)
	} else {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			ORDER BY created_at DESC, order_id DESC
			LIMIT $1 OFFSET $2;
		`
		rows, err = r.db.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return collectOrders(rows)
}

// UpdateOrderStatus writes both status columns.
func (r *PgxOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentStatus domain.PaymentStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, last_updated_by = $3, last_updated_at = $4
		WHERE order_id = $5;
	`
	cmdTag, err := r.db.Exec(ctx, query, string(status), string(paymentStatus), updatedBy, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
