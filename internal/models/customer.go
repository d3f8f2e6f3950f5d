package models

import "github.com/shopspring/decimal"

// Customer is a row of the customers table.
type Customer struct {
	CustomerID    string          `db:"customer_id"`
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	Phone         string          `db:"phone"`
	Address       string          `db:"address"`
	LoyaltyPoints int             `db:"loyalty_points"`
	CreditLimit   decimal.Decimal `db:"credit_limit"`
	CustomerGroup string          `db:"customer_group"`
	AuditFields
}
