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

type PgxCustomerRepository struct {
	db querier
}

func newPgxCustomerRepository(db querier) *PgxCustomerRepository {
	return &PgxCustomerRepository{db: db}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

const customerColumns = `customer_id, name, email, phone, address, loyalty_points, credit_limit, customer_group,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.LoyaltyPoints,
		&m.CreditLimit,
		&m.CustomerGroup,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.CustomerID,
		m.Name,
		m.Email,
		m.Phone,
		m.Address,
		m.LoyaltyPoints,
		m.CreditLimit,
		m.CustomerGroup,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer with ID %s already exists", apperrors.ErrDuplicate, m.CustomerID)
		}
		return fmt.Errorf("failed to save customer %s: %w", m.CustomerID, err)
	}
	return nil
}

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1;`, customerID)
}

func (r *PgxCustomerRepository) FindCustomerForUpdate(ctx context.Context, customerID string) (*domain.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1 FOR UPDATE;`, customerID)
}

func (r *PgxCustomerRepository) findOne(ctx context.Context, query, customerID string) (*domain.Customer, error) {
	m, err := scanCustomer(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	c := mapping.ToDomainCustomer(m)
	return &c, nil
}

// ListCustomers lists customers alphabetically.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		ORDER BY name ASC, customer_id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, limit)
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

func (r *PgxCustomerRepository) UpdateLoyaltyPoints(ctx context.Context, customerID string, points int, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE customers
		SET loyalty_points = $1, last_updated_by = $2, last_updated_at = $3
		WHERE customer_id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, points, updatedBy, updatedAt, customerID)
	if err != nil {
		return fmt.Errorf("failed to update loyalty points for customer %s: %w", customerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
