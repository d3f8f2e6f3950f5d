package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// posService implements the POSSvcFacade interface
type posService struct {
	BaseService
	uow             portsrepo.UnitOfWork
	posRepo         portsrepo.POSTransactionReader
	standardTaxRate decimal.Decimal
	now             func() time.Time
}

// POSServiceOption is a functional option for configuring the POS service
type POSServiceOption func(*posService)

// WithStandardTaxRate sets the rate used to estimate tax on money-only partial refunds.
func WithStandardTaxRate(rate decimal.Decimal) POSServiceOption {
	return func(s *posService) {
		s.standardTaxRate = rate
	}
}

// WithPOSBase replaces the shared cache and telemetry dependencies.
func WithPOSBase(base BaseService) POSServiceOption {
	return func(s *posService) {
		s.BaseService = base
	}
}

// WithPOSClock overrides the time source used for timestamps and document numbers.
func WithPOSClock(now func() time.Time) POSServiceOption {
	return func(s *posService) {
		s.now = now
	}
}

// NewPOSService creates a new POS service with the provided options
func NewPOSService(uow portsrepo.UnitOfWork, posRepo portsrepo.POSTransactionReader, options ...POSServiceOption) portssvc.POSSvcFacade {
	svc := &posService{
		BaseService:     newBaseService(),
		uow:             uow,
		posRepo:         posRepo,
		standardTaxRate: domain.DefaultTaxRate,
		now:             time.Now,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure posService implements the POSSvcFacade interface
var _ portssvc.POSSvcFacade = (*posService)(nil)

// pricedLine is a request line resolved against the catalogue.
type pricedLine struct {
	product   domain.Product
	quantity  int
	unitPrice decimal.Decimal
	discount  decimal.Decimal
	lineTotal decimal.Decimal
	tax       decimal.Decimal
}

func validateSaleRequest(req dto.CreatePOSTransactionRequest, staffID string) error {
	if staffID == "" {
		return fmt.Errorf("%w: staff member is required", apperrors.ErrUnauthorized)
	}
	if len(req.Items) == 0 {
		return validationError("transaction must contain at least one item")
	}
	if !req.PaymentMethod.IsValid() {
		return validationError("unsupported payment method %q", req.PaymentMethod)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return validationError("item %d: productID is required", i)
		}
		if item.Quantity <= 0 {
			return validationError("item %d: quantity must be positive", i)
		}
	}
	return nil
}

// sortedProductIDs returns the distinct product IDs in lock order.
func sortedProductIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// lockProducts reads every product with a row lock, in ID order.
func lockProducts(ctx context.Context, repo portsrepo.ProductWriter, ids []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(ids))
	for _, id := range sortedProductIDs(ids) {
		p, err := repo.FindProductForUpdate(ctx, id)
		if err != nil {
			return nil, notFound(err, "product", id)
		}
		products[id] = *p
	}
	return products, nil
}

// CreateTransaction rings up a sale. Stock checks, the receipt, stock decrements,
// ledger entries, loyalty points and the activity log commit together.
func (s *posService) CreateTransaction(ctx context.Context, req dto.CreatePOSTransactionRequest, staffID string) (txn *domain.POSTransaction, err error) {
	ctx, span := s.startSpan(ctx, "pos.CreateTransaction")
	defer func() { endSpan(span, err) }()

	if err := validateSaleRequest(req, staffID); err != nil {
		s.LogWarn(ctx, err, "Rejected POS transaction request", slog.String("staff_id", staffID))
		return nil, err
	}

	now := s.now().UTC()
	var created domain.POSTransaction
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		ids := make([]string, len(req.Items))
		for i, item := range req.Items {
			ids[i] = item.ProductID
		}
		products, err := lockProducts(ctx, repos.Products, ids)
		if err != nil {
			return err
		}

		requested := make(map[string]int, len(products))
		for _, item := range req.Items {
			requested[item.ProductID] += item.Quantity
		}
		for id, qty := range requested {
			p := products[id]
			if p.CurrentStock < qty {
				return &apperrors.InsufficientStockError{ProductID: id, ProductName: p.Name, Available: p.CurrentStock, Requested: qty}
			}
		}

		lines := make([]pricedLine, len(req.Items))
		lineTotals := make([]decimal.Decimal, len(req.Items))
		lineTaxes := make([]decimal.Decimal, len(req.Items))
		for i, item := range req.Items {
			p := products[item.ProductID]
			line := pricedLine{product: p, quantity: item.Quantity, unitPrice: p.Price, discount: decimal.Zero}
			if item.UnitPrice != nil {
				line.unitPrice = *item.UnitPrice
			}
			if item.Discount != nil {
				line.discount = *item.Discount
			}
			line.lineTotal, line.tax, err = domain.PriceLine(domain.SaleLine{
				UnitPrice: line.unitPrice,
				Quantity:  line.quantity,
				Discount:  line.discount,
				TaxRate:   p.TaxRate,
			})
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			lines[i] = line
			lineTotals[i] = line.lineTotal
			lineTaxes[i] = line.tax
		}

		discount := decimal.Zero
		if req.Discount != nil {
			discount = *req.Discount
		}
		totals, err := domain.ComputeSaleTotals(lineTotals, lineTaxes, discount)
		if err != nil {
			return err
		}
		settlement, err := domain.Settle(req.PaymentMethod, totals.Total, req.CashReceived, req.CardAmount)
		if err != nil {
			return err
		}

		var customer *domain.Customer
		if req.CustomerID != nil && *req.CustomerID != "" {
			customer, err = repos.Customers.FindCustomerForUpdate(ctx, *req.CustomerID)
			if err != nil {
				return notFound(err, "customer", *req.CustomerID)
			}
		}

		created = domain.POSTransaction{
			TransactionID:     uuid.NewString(),
			TransactionNumber: utils.NewDocumentNumber("POS", now),
			StaffID:           staffID,
			Subtotal:          totals.Subtotal,
			Tax:               totals.Tax,
			Discount:          totals.Discount,
			Total:             totals.Total,
			PaymentMethod:     req.PaymentMethod,
			CashReceived:      domain.RoundMoney(settlement.CashReceived),
			ChangeGiven:       settlement.ChangeGiven,
			CardAmount:        domain.RoundMoney(settlement.CardAmount),
			Status:            domain.POSCompleted,
			ReceiptPrinted:    req.ReceiptPrinted,
			Notes:             req.Notes,
			AuditFields:       domain.NewAuditFields(staffID, now),
		}
		if customer != nil {
			created.CustomerID = &customer.CustomerID
		}

		// Line taxes are scaled by the same factor as the header tax when a
		// transaction discount applies, and always sum to it.
		itemTaxes := lineTaxes
		if totals.Discount.IsPositive() {
			itemTaxes = domain.AllocateTax(lineTaxes, totals.Tax)
		}
		created.Items = make([]domain.POSTransactionItem, len(lines))
		for i, line := range lines {
			created.Items[i] = domain.POSTransactionItem{
				ItemID:        uuid.NewString(),
				TransactionID: created.TransactionID,
				ProductID:     line.product.ProductID,
				ProductName:   line.product.Name,
				Quantity:      line.quantity,
				UnitPrice:     domain.RoundMoney(line.unitPrice),
				Discount:      domain.RoundMoney(line.discount),
				LineTotal:     line.lineTotal,
				TaxAmount:     itemTaxes[i],
				CreatedAt:     now,
			}
		}

		if err := repos.POSTransactions.SavePOSTransaction(ctx, created); err != nil {
			return err
		}

		stock := make(map[string]int, len(products))
		for id, p := range products {
			stock[id] = p.CurrentStock
		}
		entries := make([]domain.InventoryTransaction, 0, len(lines))
		for _, line := range lines {
			id := line.product.ProductID
			previous := stock[id]
			next := previous - line.quantity
			stock[id] = next
			entries = append(entries, domain.InventoryTransaction{
				InventoryTransactionID: uuid.NewString(),
				ProductID:              id,
				Type:                   domain.InventorySale,
				Quantity:               -line.quantity,
				PreviousStock:          previous,
				NewStock:               next,
				Reason:                 "POS sale " + created.TransactionNumber,
				ReferenceID:            &created.TransactionID,
				ReferenceType:          domain.ReferencePOSTransaction,
				PerformedBy:            staffID,
				CreatedAt:              now,
			})
		}
		for _, id := range sortedProductIDs(ids) {
			if err := repos.Products.UpdateProductStock(ctx, id, stock[id], stock[id] > 0, staffID, now); err != nil {
				return err
			}
		}
		if err := repos.Inventory.AppendInventoryTransactions(ctx, entries...); err != nil {
			return err
		}

		if customer != nil {
			customer.AdjustLoyalty(domain.LoyaltyPointsFor(created.Total))
			if err := repos.Customers.UpdateLoyaltyPoints(ctx, customer.CustomerID, customer.LoyaltyPoints, staffID, now); err != nil {
				return err
			}
		}

		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(staffID, domain.ActionPOSSale, domain.EntityPOSTransaction, created.TransactionID, map[string]any{
			"transactionNumber": created.TransactionNumber,
			"total":             created.Total.StringFixed(2),
			"paymentMethod":     string(created.PaymentMethod),
			"itemCount":         len(created.Items),
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create POS transaction", slog.String("staff_id", staffID))
		return nil, err
	}

	if s.Telemetry != nil {
		attrs := metric.WithAttributes(attribute.String("payment_method", string(created.PaymentMethod)))
		s.Telemetry.Sales.Add(ctx, 1, attrs)
		s.Telemetry.SalesRevenue.Add(ctx, created.Total.InexactFloat64(), attrs)
	}
	s.invalidateDashboard(ctx)

	s.LogInfo(ctx, "POS transaction created",
		slog.String("transaction_id", created.TransactionID),
		slog.String("transaction_number", created.TransactionNumber),
		slog.String("total", created.Total.StringFixed(2)))
	return &created, nil
}

// refundLine is a quantity of one purchased product being given back.
type refundLine struct {
	productID string
	quantity  int
}

// purchasedProduct aggregates the lines of one product on the original sale.
type purchasedProduct struct {
	name      string
	unitPrice decimal.Decimal
	quantity  int
	lineTotal decimal.Decimal
	tax       decimal.Decimal
	refunded  int
}

func (p purchasedProduct) refundable() int {
	return p.quantity - p.refunded
}

func validateRefundRequest(req dto.RefundRequest, staffID string) error {
	if staffID == "" {
		return fmt.Errorf("%w: staff member is required", apperrors.ErrUnauthorized)
	}
	if !req.Amount.IsPositive() {
		return validationError("refund amount must be positive")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return validationError("refund reason is required")
	}
	if req.RefundType != domain.RefundFull && req.RefundType != domain.RefundPartial {
		return validationError("unsupported refund type %q", req.RefundType)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return validationError("item %d: productID is required", i)
		}
		if item.Quantity <= 0 {
			return validationError("item %d: quantity must be positive", i)
		}
	}
	return nil
}

// checkRefundable rejects originals that cannot take another refund.
func checkRefundable(original *domain.POSTransaction) error {
	if original.IsRefund() {
		return fmt.Errorf("%w: transaction %s is itself a refund", apperrors.ErrInvalidState, original.TransactionNumber)
	}
	switch original.Status {
	case domain.POSRefunded:
		return fmt.Errorf("%w: %s", apperrors.ErrAlreadyRefunded, original.TransactionNumber)
	case domain.POSCancelled:
		return fmt.Errorf("%w: transaction %s is cancelled", apperrors.ErrInvalidState, original.TransactionNumber)
	}
	return nil
}

// RefundTransaction records a refund against a completed sale. The refund is a
// new transaction with negated amounts; refunded products go back on the shelf.
func (s *posService) RefundTransaction(ctx context.Context, transactionID string, req dto.RefundRequest, staffID string) (refund *domain.POSTransaction, err error) {
	ctx, span := s.startSpan(ctx, "pos.RefundTransaction")
	defer func() { endSpan(span, err) }()

	if err := validateRefundRequest(req, staffID); err != nil {
		s.LogWarn(ctx, err, "Rejected refund request", slog.String("transaction_id", transactionID))
		return nil, err
	}

	now := s.now().UTC()
	amount := domain.RoundMoney(req.Amount)
	var created domain.POSTransaction
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		original, err := repos.POSTransactions.FindPOSTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return notFound(err, "transaction", transactionID)
		}
		if err := checkRefundable(original); err != nil {
			return err
		}

		priorRefunds, err := repos.POSTransactions.ListRefundsForTransaction(ctx, original.TransactionID)
		if err != nil {
			return err
		}

		purchased := make(map[string]*purchasedProduct)
		order := make([]string, 0, len(original.Items))
		for _, item := range original.Items {
			p, ok := purchased[item.ProductID]
			if !ok {
				p = &purchasedProduct{name: item.ProductName, unitPrice: item.UnitPrice}
				purchased[item.ProductID] = p
				order = append(order, item.ProductID)
			}
			p.quantity += item.Quantity
			p.lineTotal = p.lineTotal.Add(item.LineTotal)
			p.tax = p.tax.Add(item.TaxAmount)
		}

		refundedSoFar := decimal.Zero
		for _, prior := range priorRefunds {
			refundedSoFar = refundedSoFar.Add(prior.Total.Neg())
			for _, item := range prior.Items {
				if p, ok := purchased[item.ProductID]; ok {
					p.refunded += -item.Quantity
				}
			}
		}

		remaining := original.Total.Sub(refundedSoFar)
		if amount.GreaterThan(remaining) {
			return &apperrors.AmountExceedsOriginalError{Requested: amount, Refundable: remaining}
		}

		var lines []refundLine
		if len(req.Items) > 0 {
			requested := make(map[string]int)
			for _, item := range req.Items {
				if _, ok := requested[item.ProductID]; !ok {
					lines = append(lines, refundLine{productID: item.ProductID})
				}
				requested[item.ProductID] += item.Quantity
			}
			for i := range lines {
				line := &lines[i]
				line.quantity = requested[line.productID]
				p, ok := purchased[line.productID]
				if !ok {
					return &apperrors.OverRefundError{ProductID: line.productID, Refundable: 0, Requested: line.quantity}
				}
				if line.quantity > p.refundable() {
					return &apperrors.OverRefundError{ProductID: line.productID, Refundable: p.refundable(), Requested: line.quantity}
				}
			}
		} else if req.RefundType == domain.RefundFull {
			for _, id := range order {
				if q := purchased[id].refundable(); q > 0 {
					lines = append(lines, refundLine{productID: id, quantity: q})
				}
			}
		}

		tax := s.refundTax(original, req.RefundType, amount, lines, purchased)

		created = domain.POSTransaction{
			TransactionID:         uuid.NewString(),
			TransactionNumber:     utils.NewDocumentNumber("REF", now),
			CustomerID:            original.CustomerID,
			StaffID:               staffID,
			Subtotal:              amount.Sub(tax).Neg(),
			Tax:                   tax.Neg(),
			Discount:              decimal.Zero,
			Total:                 amount.Neg(),
			PaymentMethod:         original.PaymentMethod,
			CashReceived:          decimal.Zero,
			ChangeGiven:           decimal.Zero,
			CardAmount:            decimal.Zero,
			Status:                domain.POSCompleted,
			OriginalTransactionID: &original.TransactionID,
			RefundReason:          req.Reason,
			AuditFields:           domain.NewAuditFields(staffID, now),
		}
		created.Items = make([]domain.POSTransactionItem, 0, len(lines))
		for _, line := range lines {
			p := purchased[line.productID]
			qty := decimal.NewFromInt(int64(line.quantity))
			whole := decimal.NewFromInt(int64(p.quantity))
			created.Items = append(created.Items, domain.POSTransactionItem{
				ItemID:        uuid.NewString(),
				TransactionID: created.TransactionID,
				ProductID:     line.productID,
				ProductName:   p.name,
				Quantity:      -line.quantity,
				UnitPrice:     p.unitPrice,
				Discount:      decimal.Zero,
				LineTotal:     domain.RoundMoney(p.lineTotal.Mul(qty).Div(whole)).Neg(),
				TaxAmount:     domain.RoundMoney(p.tax.Mul(qty).Div(whole)).Neg(),
				CreatedAt:     now,
			})
		}

		if err := repos.POSTransactions.SavePOSTransaction(ctx, created); err != nil {
			return err
		}

		if len(lines) > 0 {
			ids := make([]string, len(lines))
			for i, line := range lines {
				ids[i] = line.productID
			}
			products, err := lockProducts(ctx, repos.Products, ids)
			if err != nil {
				return err
			}
			entries := make([]domain.InventoryTransaction, 0, len(lines))
			for _, line := range lines {
				p := products[line.productID]
				next := p.CurrentStock + line.quantity
				if err := repos.Products.UpdateProductStock(ctx, p.ProductID, next, next > 0, staffID, now); err != nil {
					return err
				}
				entries = append(entries, domain.InventoryTransaction{
					InventoryTransactionID: uuid.NewString(),
					ProductID:              p.ProductID,
					Type:                   domain.InventoryRefund,
					Quantity:               line.quantity,
					PreviousStock:          p.CurrentStock,
					NewStock:               next,
					Reason:                 "Refund " + created.TransactionNumber + ": " + req.Reason,
					ReferenceID:            &created.TransactionID,
					ReferenceType:          domain.ReferencePOSTransaction,
					PerformedBy:            staffID,
					CreatedAt:              now,
				})
			}
			if err := repos.Inventory.AppendInventoryTransactions(ctx, entries...); err != nil {
				return err
			}
		}

		fullyRefunded := req.RefundType == domain.RefundFull ||
			amount.Equal(original.Total) ||
			refundedSoFar.Add(amount).GreaterThanOrEqual(original.Total)
		if fullyRefunded {
			if err := repos.POSTransactions.UpdatePOSTransactionStatus(ctx, original.TransactionID, domain.POSRefunded, staffID, now); err != nil {
				return err
			}
		}

		if original.CustomerID != nil {
			customer, err := repos.Customers.FindCustomerForUpdate(ctx, *original.CustomerID)
			if err != nil {
				return notFound(err, "customer", *original.CustomerID)
			}
			customer.AdjustLoyalty(-domain.LoyaltyPointsFor(amount))
			if err := repos.Customers.UpdateLoyaltyPoints(ctx, customer.CustomerID, customer.LoyaltyPoints, staffID, now); err != nil {
				return err
			}
		}

		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(staffID, domain.ActionPOSRefund, domain.EntityPOSTransaction, original.TransactionID, map[string]any{
			"refundTransactionID":     created.TransactionID,
			"refundTransactionNumber": created.TransactionNumber,
			"amount":                  amount.StringFixed(2),
			"refundType":              string(req.RefundType),
			"reason":                  req.Reason,
			"itemCount":               len(created.Items),
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to refund POS transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	if s.Telemetry != nil {
		attrs := metric.WithAttributes(attribute.String("refund_type", string(req.RefundType)))
		s.Telemetry.Refunds.Add(ctx, 1, attrs)
		s.Telemetry.RefundedAmount.Add(ctx, amount.InexactFloat64(), attrs)
	}
	s.invalidateDashboard(ctx)

	s.LogInfo(ctx, "POS transaction refunded",
		slog.String("transaction_id", transactionID),
		slog.String("refund_id", created.TransactionID),
		slog.String("amount", amount.StringFixed(2)))
	return &created, nil
}

// refundTax decides the tax portion of a refund amount. A full refund mirrors
// the original's tax ratio, a partial refund of named items uses their stored
// tax, and a money-only partial refund is estimated at the standard rate.
func (s *posService) refundTax(original *domain.POSTransaction, refundType domain.RefundType, amount decimal.Decimal, lines []refundLine, purchased map[string]*purchasedProduct) decimal.Decimal {
	var tax decimal.Decimal
	switch {
	case refundType == domain.RefundFull && original.Total.IsPositive():
		tax = domain.RoundMoney(original.Tax.Mul(amount).Div(original.Total))
	case len(lines) > 0:
		tax = decimal.Zero
		for _, line := range lines {
			p := purchased[line.productID]
			share := p.tax.Mul(decimal.NewFromInt(int64(line.quantity))).Div(decimal.NewFromInt(int64(p.quantity)))
			tax = tax.Add(domain.RoundMoney(share))
		}
	default:
		tax = domain.EstimateIncludedTax(amount, s.standardTaxRate)
	}
	return decimal.Min(tax, amount)
}

// GetTransaction retrieves a transaction with its items.
func (s *posService) GetTransaction(ctx context.Context, transactionID string) (*domain.POSTransaction, error) {
	txn, err := s.posRepo.FindPOSTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find POS transaction", slog.String("transaction_id", transactionID))
		}
		return nil, notFound(err, "transaction", transactionID)
	}
	return txn, nil
}

// ListTransactions retrieves a page of transactions, newest first.
func (s *posService) ListTransactions(ctx context.Context, params dto.ListPOSTransactionsParams) (*dto.ListPOSTransactionsResponse, error) {
	txns, nextToken, err := s.posRepo.ListPOSTransactions(ctx, params.Limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list POS transactions", slog.Int("limit", params.Limit))
		return nil, err
	}
	return &dto.ListPOSTransactionsResponse{Transactions: txns, NextToken: nextToken}, nil
}
