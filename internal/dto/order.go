package dto

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
)

// OrderItemRequest is one product line of a checkout.
type OrderItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0,lte=2147483647"`
}

// CreateOrderRequest places a storefront order. Prices come from the catalogue.
type CreateOrderRequest struct {
	CustomerID      *string            `json:"customerID,omitempty"`
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerEmail   string             `json:"customerEmail" binding:"required,email"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	Notes           string             `json:"notes,omitempty"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest changes the status and/or payment status of an order.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateOrderRequest struct {
	Status        *domain.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *domain.PaymentStatus `json:"paymentStatus,omitempty"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListOrdersResponse wraps the list of orders.
type ListOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Order domain.Order `json:"order"`
}
