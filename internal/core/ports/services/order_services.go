package services

import (
	"context"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
)

// OrderReaderSvc defines read operations for storefront orders
type OrderReaderSvc interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error)
}

// OrderWriterSvc defines write operations for storefront orders
type OrderWriterSvc interface {
	// CreateOrder places a pending order priced from the catalogue.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actorID string) (*domain.Order, error)

	// UpdateOrder moves an order through its status workflow and/or changes its payment status.
	UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, actorID string) (*domain.Order, error)
}

// OrderSvcFacade combines all order service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
}
