package mapping

import (
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/models"
)

// ToModelPOSTransaction converts a domain POSTransaction header to a model row. Items are mapped separately.
func ToModelPOSTransaction(d domain.POSTransaction) models.POSTransaction {
	return models.POSTransaction{
		TransactionID:         d.TransactionID,
		TransactionNumber:     d.TransactionNumber,
		CustomerID:            ToNullString(d.CustomerID),
		StaffID:               d.StaffID,
		Subtotal:              d.Subtotal,
		Tax:                   d.Tax,
		Discount:              d.Discount,
		Total:                 d.Total,
		PaymentMethod:         string(d.PaymentMethod),
		CashReceived:          d.CashReceived,
		ChangeGiven:           d.ChangeGiven,
		CardAmount:            d.CardAmount,
		Status:                string(d.Status),
		ReceiptPrinted:        d.ReceiptPrinted,
		Notes:                 d.Notes,
		OriginalTransactionID: ToNullString(d.OriginalTransactionID),
		RefundReason:          d.RefundReason,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPOSTransaction converts a model row to a domain POSTransaction without items.
func ToDomainPOSTransaction(m models.POSTransaction) domain.POSTransaction {
	return domain.POSTransaction{
		TransactionID:         m.TransactionID,
		TransactionNumber:     m.TransactionNumber,
		CustomerID:            FromNullString(m.CustomerID),
		StaffID:               m.StaffID,
		Subtotal:              m.Subtotal,
		Tax:                   m.Tax,
		Discount:              m.Discount,
		Total:                 m.Total,
		PaymentMethod:         domain.PaymentMethod(m.PaymentMethod),
		CashReceived:          m.CashReceived,
		ChangeGiven:           m.ChangeGiven,
		CardAmount:            m.CardAmount,
		Status:                domain.POSStatus(m.Status),
		ReceiptPrinted:        m.ReceiptPrinted,
		Notes:                 m.Notes,
		OriginalTransactionID: FromNullString(m.OriginalTransactionID),
		RefundReason:          m.RefundReason,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPOSTransactionItem converts a domain receipt line to a model row
func ToModelPOSTransactionItem(d domain.POSTransactionItem) models.POSTransactionItem {
	return models.POSTransactionItem(d)
}

// ToDomainPOSTransactionItem converts a model row to a domain receipt line
func ToDomainPOSTransactionItem(m models.POSTransactionItem) domain.POSTransactionItem {
	return domain.POSTransactionItem(m)
}

// ToModelInventoryTransaction converts a domain ledger entry to a model row
func ToModelInventoryTransaction(d domain.InventoryTransaction) models.InventoryTransaction {
	m := models.InventoryTransaction{
		InventoryTransactionID: d.InventoryTransactionID,
		ProductID:              d.ProductID,
		Type:                   string(d.Type),
		Quantity:               d.Quantity,
		PreviousStock:          d.PreviousStock,
		NewStock:               d.NewStock,
		Reason:                 d.Reason,
		Notes:                  d.Notes,
		ReferenceID:            ToNullString(d.ReferenceID),
		ReferenceType:          string(d.ReferenceType),
		PerformedBy:            d.PerformedBy,
		CreatedAt:              d.CreatedAt,
	}
	if d.UnitCost != nil {
		m.UnitCost.Decimal = *d.UnitCost
		m.UnitCost.Valid = true
	}
	return m
}

// ToDomainInventoryTransaction converts a model row to a domain ledger entry
func ToDomainInventoryTransaction(m models.InventoryTransaction) domain.InventoryTransaction {
	d := domain.InventoryTransaction{
		InventoryTransactionID: m.InventoryTransactionID,
		ProductID:              m.ProductID,
		Type:                   domain.InventoryTransactionType(m.Type),
		Quantity:               m.Quantity,
		PreviousStock:          m.PreviousStock,
		NewStock:               m.NewStock,
		Reason:                 m.Reason,
		Notes:                  m.Notes,
		ReferenceID:            FromNullString(m.ReferenceID),
		ReferenceType:          domain.ReferenceType(m.ReferenceType),
		PerformedBy:            m.PerformedBy,
		CreatedAt:              m.CreatedAt,
	}
	if m.UnitCost.Valid {
		cost := m.UnitCost.Decimal
		d.UnitCost = &cost
	}
	return d
}
