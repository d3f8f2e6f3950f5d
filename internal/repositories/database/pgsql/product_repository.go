package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/models"
	"github.com/beanline/coffee_backoffice/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxProductRepository struct {
	db querier
}

// newPgxProductRepository creates a new repository for catalogue data.
func newPgxProductRepository(db querier) *PgxProductRepository {
	return &PgxProductRepository{db: db}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, name, brand, category, description, price, cost_price, tax_rate,
	current_stock, min_stock, max_stock, in_stock, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.Name,
		&m.Brand,
		&m.Category,
		&m.Description,
		&m.Price,
		&m.CostPrice,
		&m.TaxRate,
		&m.CurrentStock,
		&m.MinStock,
		&m.MaxStock,
		&m.InStock,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := make([]domain.Product, 0)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, mapping.ToDomainProduct(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db.Exec(ctx, query,
		m.ProductID,
		m.Name,
		m.Brand,
		m.Category,
		m.Description,
		m.Price,
		m.CostPrice,
		m.TaxRate,
		m.CurrentStock,
		m.MinStock,
		m.MaxStock,
		m.InStock,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product with ID %s already exists", apperrors.ErrDuplicate, m.ProductID)
		}
		return fmt.Errorf("failed to save product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1;`, productID)
}

// FindProductForUpdate retrieves a product and holds a row lock until the transaction ends.
func (r *PgxProductRepository) FindProductForUpdate(ctx context.Context, productID string) (*domain.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1 FOR UPDATE;`, productID)
}

func (r *PgxProductRepository) findOne(ctx context.Context, query, productID string) (*domain.Product, error) {
	m, err := scanProduct(r.db.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	p := mapping.ToDomainProduct(m)
	return &p, nil
}

// FindProductsByIDs retrieves multiple products by their IDs.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = ANY($1);`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	return byID, nil
}

// ListProducts lists products matching the filter, ordered by name.
func (r *PgxProductRepository) ListProducts(ctx context.Context, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions, "(name ILIKE $"+n+" OR brand ILIKE $"+n+")")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	if filter.InStockOnly {
		conditions = append(conditions, "in_stock = TRUE")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, max(filter.Offset, 0))
	query += " ORDER BY name ASC, product_id ASC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return collectProducts(rows)
}

// ListLowStockProducts lists products at or below their reorder level, emptiest first.
func (r *PgxProductRepository) ListLowStockProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE current_stock <= min_stock
		ORDER BY current_stock ASC, name ASC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return collectProducts(rows)
}

// UpdateProductStock writes the stock counter and in-stock flag.
func (r *PgxProductRepository) UpdateProductStock(ctx context.Context, productID string, currentStock int, inStock bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE products
		SET current_stock = $1, in_stock = $2, last_updated_by = $3, last_updated_at = $4
		WHERE product_id = $5;
	`
	cmdTag, err := r.db.Exec(ctx, query, currentStock, inStock, updatedBy, updatedAt, productID)
	if err != nil {
		return fmt.Errorf("failed to update stock for product %s: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}
