package mapping

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:    d.ProductID,
		Name:         d.Name,
		Brand:        d.Brand,
		Category:     d.Category,
		Description:  d.Description,
		Price:        d.Price,
		CostPrice:    d.CostPrice,
		TaxRate:      d.TaxRate,
		CurrentStock: d.CurrentStock,
		MinStock:     d.MinStock,
		MaxStock:     d.MaxStock,
		InStock:      d.InStock,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:    m.ProductID,
		Name:         m.Name,
		Brand:        m.Brand,
		Category:     m.Category,
		Description:  m.Description,
		Price:        m.Price,
		CostPrice:    m.CostPrice,
		TaxRate:      m.TaxRate,
		CurrentStock: m.CurrentStock,
		MinStock:     m.MinStock,
		MaxStock:     m.MaxStock,
		InStock:      m.InStock,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:    d.CustomerID,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		Address:       d.Address,
		LoyaltyPoints: d.LoyaltyPoints,
		CreditLimit:   d.CreditLimit,
		CustomerGroup: d.CustomerGroup,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:    m.CustomerID,
		Name:          m.Name,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
		LoyaltyPoints: m.LoyaltyPoints,
		CreditLimit:   m.CreditLimit,
		CustomerGroup: m.CustomerGroup,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
