package repositories

import (
	"context"
	"time"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

// OrderReader defines read operations for storefront orders
type OrderReader interface {
	// FindOrderByID retrieves an order with its items.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
}

// OrderWriter defines write operations for storefront orders
type OrderWriter interface {
	SaveOrder(ctx context.Context, order domain.Order) error

	// FindOrderForUpdate reads an order header and locks its row.
	FindOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error)

	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentStatus domain.PaymentStatus, updatedBy string, updatedAt time.Time) error
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}
