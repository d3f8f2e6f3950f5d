package domain

import (
	"fmt"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a POS sale was settled.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentMixed PaymentMethod = "mixed"
)

// IsValid reports whether m is a supported payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMixed:
		return true
	}
	return false
}

// POSStatus is the lifecycle state of a POS transaction.
type POSStatus string

const (
	POSCompleted POSStatus = "completed"
	POSRefunded  POSStatus = "refunded"
	POSCancelled POSStatus = "cancelled"
)

// RefundType distinguishes refunding everything still outstanding from a partial refund.
type RefundType string

const (
	RefundFull    RefundType = "full"
	RefundPartial RefundType = "partial"
)

// POSTransaction is a point-of-sale receipt. Refunds are stored as separate
// transactions with negated amounts that point back at the sale.
type POSTransaction struct {
	TransactionID         string               `json:"transactionID"`
	TransactionNumber     string               `json:"transactionNumber"`
	CustomerID            *string              `json:"customerID,omitempty"`
	StaffID               string               `json:"staffID"`
	Subtotal              decimal.Decimal      `json:"subtotal"`
	Tax                   decimal.Decimal      `json:"tax"`
	Discount              decimal.Decimal      `json:"discount"`
	Total                 decimal.Decimal      `json:"total"`
	PaymentMethod         PaymentMethod        `json:"paymentMethod"`
	CashReceived          decimal.Decimal      `json:"cashReceived"`
	ChangeGiven           decimal.Decimal      `json:"changeGiven"`
	CardAmount            decimal.Decimal      `json:"cardAmount"`
	Status                POSStatus            `json:"status"`
	ReceiptPrinted        bool                 `json:"receiptPrinted"`
	Notes                 string               `json:"notes,omitempty"`
	OriginalTransactionID *string              `json:"originalTransactionID,omitempty"`
	RefundReason          string               `json:"refundReason,omitempty"`
	Items                 []POSTransactionItem `json:"items,omitempty"`
	AuditFields
}

// IsRefund reports whether the transaction is a refund of another one.
func (t POSTransaction) IsRefund() bool {
	return t.OriginalTransactionID != nil
}

// POSTransactionItem is one receipt line. Quantity is negative on refund rows.
type POSTransactionItem struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	ProductID     string          `json:"productID"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Discount      decimal.Decimal `json:"discount"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SaleLine is a priced line before it becomes a POSTransactionItem.
type SaleLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
}

// PriceLine returns the discounted line total and its tax rounded to cents.
func PriceLine(line SaleLine) (lineTotal decimal.Decimal, tax decimal.Decimal, err error) {
	if line.Quantity <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if line.UnitPrice.IsNegative() || line.Discount.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: price and discount must not be negative", apperrors.ErrValidation)
	}
	gross := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	if line.Discount.GreaterThan(gross) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: line discount %s exceeds line amount %s", apperrors.ErrValidation, line.Discount.StringFixed(2), gross.StringFixed(2))
	}
	lineTotal = RoundMoney(gross.Sub(line.Discount))
	tax = RoundMoney(lineTotal.Mul(line.TaxRate))
	return lineTotal, tax, nil
}

// SaleTotals are the header amounts of a sale.
type SaleTotals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeSaleTotals sums priced lines and applies a transaction level discount.
// The discount reduces the taxable base, so line taxes are scaled down by the
// same proportion.
func ComputeSaleTotals(lineTotals, lineTaxes []decimal.Decimal, discount decimal.Decimal) (SaleTotals, error) {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	tax := decimal.Zero
	for _, t := range lineTaxes {
		tax = tax.Add(t)
	}
	if discount.IsNegative() {
		return SaleTotals{}, fmt.Errorf("%w: discount must not be negative", apperrors.ErrValidation)
	}
	if discount.GreaterThan(subtotal) {
		return SaleTotals{}, fmt.Errorf("%w: discount %s exceeds subtotal %s", apperrors.ErrValidation, discount.StringFixed(2), subtotal.StringFixed(2))
	}
	if discount.IsPositive() {
		tax = RoundMoney(tax.Mul(subtotal.Sub(discount)).Div(subtotal))
	}
	total := RoundMoney(subtotal.Sub(discount).Add(tax))
	if !total.IsPositive() {
		return SaleTotals{}, fmt.Errorf("%w: transaction total must be positive", apperrors.ErrValidation)
	}
	return SaleTotals{
		Subtotal: RoundMoney(subtotal),
		Discount: RoundMoney(discount),
		Tax:      tax,
		Total:    total,
	}, nil
}

// AllocateTax spreads a rounded header tax over the lines in proportion to
// their own tax. The rounding remainder goes to the line carrying the most tax,
// so the result always sums to total.
func AllocateTax(lineTaxes []decimal.Decimal, total decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(lineTaxes))
	sum := decimal.Sum(decimal.Zero, lineTaxes...)
	if len(lineTaxes) == 0 || !sum.IsPositive() {
		copy(out, lineTaxes)
		return out
	}

	allocated := decimal.Zero
	largest := 0
	for i, t := range lineTaxes {
		out[i] = RoundMoney(t.Mul(total).Div(sum))
		allocated = allocated.Add(out[i])
		if out[i].GreaterThan(out[largest]) {
			largest = i
		}
	}
	out[largest] = out[largest].Add(total.Sub(allocated))
	return out
}

// Settlement is the resolved tender of a sale.
type Settlement struct {
	CashReceived decimal.Decimal
	CardAmount   decimal.Decimal
	ChangeGiven  decimal.Decimal
}

// Settle validates the tendered amounts against total. Omitted cash on a cash
// sale means exact payment; omitted card amounts cover whatever cash does not.
func Settle(method PaymentMethod, total decimal.Decimal, cashReceived, cardAmount *decimal.Decimal) (Settlement, error) {
	if !method.IsValid() {
		return Settlement{}, fmt.Errorf("%w: unsupported payment method %q", apperrors.ErrValidation, method)
	}
	valueOr := func(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
		if p == nil {
			return def
		}
		return *p
	}

	switch method {
	case PaymentCash:
		cash := valueOr(cashReceived, total)
		if cash.LessThan(total) {
			return Settlement{}, fmt.Errorf("%w: cash received %s is less than total %s", apperrors.ErrValidation, cash.StringFixed(2), total.StringFixed(2))
		}
		return Settlement{CashReceived: cash, CardAmount: decimal.Zero, ChangeGiven: RoundMoney(cash.Sub(total))}, nil
	case PaymentCard:
		card := valueOr(cardAmount, total)
		if card.LessThan(total) {
			return Settlement{}, fmt.Errorf("%w: card amount %s is less than total %s", apperrors.ErrValidation, card.StringFixed(2), total.StringFixed(2))
		}
		return Settlement{CashReceived: decimal.Zero, CardAmount: card, ChangeGiven: decimal.Zero}, nil
	default:
		cash := valueOr(cashReceived, decimal.Zero)
		card := valueOr(cardAmount, decimal.Max(total.Sub(cash), decimal.Zero))
		if cash.IsNegative() || card.IsNegative() {
			return Settlement{}, fmt.Errorf("%w: tendered amounts must not be negative", apperrors.ErrValidation)
		}
		paid := cash.Add(card)
		if paid.LessThan(total) {
			return Settlement{}, fmt.Errorf("%w: amount tendered %s is less than total %s", apperrors.ErrValidation, paid.StringFixed(2), total.StringFixed(2))
		}
		return Settlement{CashReceived: cash, CardAmount: card, ChangeGiven: RoundMoney(paid.Sub(total))}, nil
	}
}

// EstimateIncludedTax returns the tax portion of a tax-inclusive amount at rate.
func EstimateIncludedTax(amount, rate decimal.Decimal) decimal.Decimal {
	net := amount.Div(decimal.NewFromInt(1).Add(rate))
	return RoundMoney(amount.Sub(net))
}

// LoyaltyPointsFor converts a monetary amount into whole loyalty points.
func LoyaltyPointsFor(amount decimal.Decimal) int {
	return int(amount.Floor().IntPart())
}
