package domain

import (
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of a storefront order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderOnTheWay  OrderStatus = "on_the_way"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus is the settlement state of a storefront order.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFailed        PaymentStatus = "failed"
)

// orderTransitions lists the allowed next states. Terminal states have none.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderOnTheWay, OrderCancelled},
	OrderOnTheWay:  {OrderDelivered},
	OrderDelivered: nil,
	OrderCancelled: nil,
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError when s cannot move to next.
func (s OrderStatus) ValidateTransition(next OrderStatus) error {
	if !s.CanTransition(next) {
		return &apperrors.InvalidTransitionError{Entity: "order", From: string(s), To: string(next)}
	}
	return nil
}

// IsValid reports whether p is a known payment status.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentPartiallyPaid, PaymentFailed:
		return true
	}
	return false
}

// Order is a storefront order placed by a customer.
type Order struct {
	OrderID         string          `json:"orderID"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerID      *string         `json:"customerID,omitempty"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
	Notes           string          `json:"notes,omitempty"`
	Items           []OrderItem     `json:"items,omitempty"`
	AuditFields
}

// OrderItem is one product line of a storefront order.
type OrderItem struct {
	OrderItemID string          `json:"orderItemID"`
	OrderID     string          `json:"orderID"`
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	CreatedAt   time.Time       `json:"createdAt"`
}
