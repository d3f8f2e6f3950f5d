package dto

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a product to the catalogue.
type CreateProductRequest struct {
	Name         string           `json:"name" binding:"required"`
	Brand        string           `json:"brand"`
	Category     string           `json:"category" binding:"required"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price" binding:"required,gt=0"`
	CostPrice    decimal.Decimal  `json:"costPrice" binding:"gte=0"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty" binding:"omitempty,gte=0,lte=1"`
	InitialStock int              `json:"initialStock" binding:"gte=0,lte=2147483647"`
	MinStock     int              `json:"minStock" binding:"gte=0,lte=2147483647"`
	MaxStock     int              `json:"maxStock" binding:"gte=0,lte=2147483647"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	InStock  bool   `form:"inStock"`
	Limit    int    `form:"limit,default=50"`
	Offset   int    `form:"offset,default=0"`
}

// ListProductsResponse wraps the list of products.
type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// CreateCustomerRequest registers a customer.
type CreateCustomerRequest struct {
	Name          string           `json:"name" binding:"required"`
	Email         string           `json:"email" binding:"required,email"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	CreditLimit   *decimal.Decimal `json:"creditLimit,omitempty" binding:"omitempty,gte=0"`
	CustomerGroup string           `json:"customerGroup"`
}

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListCustomersResponse wraps the list of customers.
type ListCustomersResponse struct {
	Customers []domain.Customer `json:"customers"`
}

// ListActivityLogsParams defines query parameters for the audit trail.
type ListActivityLogsParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListActivityLogsResponse is a page of audit entries.
type ListActivityLogsResponse struct {
	ActivityLogs []domain.ActivityLog `json:"activityLogs"`
	NextToken    *string              `json:"nextToken,omitempty"`
}
