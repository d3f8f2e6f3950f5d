package dto

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// POSItemRequest is one line of a till sale. UnitPrice defaults to the catalogue price.
type POSItemRequest struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0,lte=2147483647"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty" binding:"omitempty,gte=0"`
	Discount  *decimal.Decimal `json:"discount,omitempty" binding:"omitempty,gte=0"`
}

// CreatePOSTransactionRequest is the payload for ringing up a sale.
type CreatePOSTransactionRequest struct {
	Items          []POSItemRequest     `json:"items" binding:"required,min=1,dive"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash card mixed"`
	CashReceived   *decimal.Decimal     `json:"cashReceived,omitempty" binding:"omitempty,gte=0"`
	CardAmount     *decimal.Decimal     `json:"cardAmount,omitempty" binding:"omitempty,gte=0"`
	Discount       *decimal.Decimal     `json:"discount,omitempty" binding:"omitempty,gte=0"`
	CustomerID     *string              `json:"customerID,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	ReceiptPrinted bool                 `json:"receiptPrinted"`
}

// CreatePOSTransactionResponse is returned after a sale is recorded.
type CreatePOSTransactionResponse struct {
	Transaction domain.POSTransaction       `json:"transaction"`
	Items       []domain.POSTransactionItem `json:"items"`
}

// ToCreatePOSTransactionResponse splits the items off the header.
func ToCreatePOSTransactionResponse(txn *domain.POSTransaction) CreatePOSTransactionResponse {
	header := *txn
	items := header.Items
	header.Items = nil
	if items == nil {
		items = []domain.POSTransactionItem{}
	}
	return CreatePOSTransactionResponse{Transaction: header, Items: items}
}

// RefundItemRequest names a quantity of one product to give back.
type RefundItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0,lte=2147483647"`
}

// RefundRequest is the payload for refunding a completed sale.
type RefundRequest struct {
	Amount     decimal.Decimal     `json:"amount" binding:"required,gt=0"`
	Reason     string              `json:"reason" binding:"required"`
	RefundType domain.RefundType   `json:"refundType" binding:"required,oneof=full partial"`
	Items      []RefundItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
}

// RefundResponse wraps the refund transaction.
type RefundResponse struct {
	Refund domain.POSTransaction `json:"refund"`
}

// ListPOSTransactionsParams defines query parameters for listing sales.
type ListPOSTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListPOSTransactionsResponse is a page of transactions.
type ListPOSTransactionsResponse struct {
	Transactions []domain.POSTransaction `json:"transactions"`
	NextToken    *string                 `json:"nextToken,omitempty"`
}
