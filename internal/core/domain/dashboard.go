package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProduct is a product ranked by net quantity sold at the till.
type TopProduct struct {
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DashboardSummary is the back-office landing page rollup.
type DashboardSummary struct {
	POSRevenue          decimal.Decimal `json:"posRevenue"`
	POSTransactionCount int             `json:"posTransactionCount"`
	RefundTotal         decimal.Decimal `json:"refundTotal"`
	OrderRevenue        decimal.Decimal `json:"orderRevenue"`
	OrdersByStatus      map[string]int  `json:"ordersByStatus"`
	CustomerCount       int             `json:"customerCount"`
	LowStockCount       int             `json:"lowStockCount"`
	TopProducts         []TopProduct    `json:"topProducts"`
	RecentOrders        []Order         `json:"recentOrders"`
	GeneratedAt         time.Time       `json:"generatedAt"`
}
