package mapping

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/models"
)

// ToModelOrder converts a domain Order header to a model row. Items are mapped separately.
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:         d.OrderID,
		OrderNumber:     d.OrderNumber,
		CustomerID:      ToNullString(d.CustomerID),
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		Status:          string(d.Status),
		PaymentStatus:   string(d.PaymentStatus),
		Subtotal:        d.Subtotal,
		Tax:             d.Tax,
		ShippingFee:     d.ShippingFee,
		Total:           d.Total,
		ShippingAddress: d.ShippingAddress,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model row to a domain Order without items.
func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:         m.OrderID,
		OrderNumber:     m.OrderNumber,
		CustomerID:      FromNullString(m.CustomerID),
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		Status:          domain.OrderStatus(m.Status),
		PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		ShippingFee:     m.ShippingFee,
		Total:           m.Total,
		ShippingAddress: m.ShippingAddress,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelOrderItem(d domain.OrderItem) models.OrderItem {
	return models.OrderItem(d)
}

func ToDomainOrderItem(m models.OrderItem) domain.OrderItem {
	return domain.OrderItem(m)
}
