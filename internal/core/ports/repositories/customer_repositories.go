package repositories

import (
	"context"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// FindCustomerForUpdate reads a customer and locks its row.
	FindCustomerForUpdate(ctx context.Context, customerID string) (*domain.Customer, error)

	UpdateLoyaltyPoints(ctx context.Context, customerID string, points int, updatedBy string, updatedAt time.Time) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
