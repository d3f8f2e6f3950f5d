package domain

import "github.com/shopspring/decimal"

// Customer is a shopper known to the back-office, with a loyalty balance.
type Customer struct {
	CustomerID    string          `json:"customerID"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	LoyaltyPoints int             `json:"loyaltyPoints"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	CustomerGroup string          `json:"customerGroup,omitempty"`
	AuditFields
}

// AdjustLoyalty adds delta points, never letting the balance go below zero.
func (c *Customer) AdjustLoyalty(delta int) {
	c.LoyaltyPoints += delta
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
}
