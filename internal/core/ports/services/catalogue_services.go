package services

import (
	"context"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
)

// ProductSvcFacade defines catalogue operations
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error)
	ListLowStockProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

// CustomerSvcFacade defines customer operations
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.Customer, error)
}

// ActivitySvcFacade exposes the audit trail.
type ActivitySvcFacade interface {
	ListActivityLogs(ctx context.Context, params dto.ListActivityLogsParams) (*dto.ListActivityLogsResponse, error)
}

// DashboardSvcFacade serves the back-office rollups.
type DashboardSvcFacade interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, error)
}
