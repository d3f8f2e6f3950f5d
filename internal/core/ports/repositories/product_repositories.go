package repositories

import (
	"context"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search      string
	Category    string
	InStockOnly bool
	Limit       int
	Offset      int
}

// ProductReader defines read operations for catalogue data
type ProductReader interface {
	// FindProductByID retrieves a product. Returns apperrors.ErrNotFound when missing.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves several products keyed by ID. Missing IDs are absent from the map.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// ListProducts lists products matching the filter, ordered by name.
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// ListLowStockProducts lists products at or below their minimum stock.
	ListLowStockProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

// ProductWriter defines write operations for catalogue data
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error

	// FindProductForUpdate reads a product and locks its row until the surrounding transaction ends.
	FindProductForUpdate(ctx context.Context, productID string) (*domain.Product, error)

	// UpdateProductStock writes the stock counter and in-stock flag.
	UpdateProductStock(ctx context.Context, productID string, currentStock int, inStock bool, updatedBy string, updatedAt time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
