package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type inventoryService struct {
	BaseService
	uow        portsrepo.UnitOfWork
	productRep portsrepo.ProductReader
	ledger     portsrepo.InventoryLedgerReader
	now        func() time.Time
}

// InventoryServiceOption is a functional option for configuring the inventory service
type InventoryServiceOption func(*inventoryService)

// WithInventoryBase replaces the shared cache and telemetry dependencies.
func WithInventoryBase(base BaseService) InventoryServiceOption {
	return func(s *inventoryService) {
		s.BaseService = base
	}
}

func NewInventoryService(uow portsrepo.UnitOfWork, products portsrepo.ProductReader, ledger portsrepo.InventoryLedgerReader, options ...InventoryServiceOption) portssvc.InventorySvcFacade {
	svc := &inventoryService{
		BaseService: newBaseService(),
		uow:         uow,
		productRep:  products,
		ledger:      ledger,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func validateAdjustment(req dto.AdjustInventoryRequest, staffID string) error {
	if staffID == "" {
		return fmt.Errorf("%w: staff member is required", apperrors.ErrUnauthorized)
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return validationError("productID is required")
	}
	if req.Quantity == nil {
		return validationError("quantity is required")
	}
	if *req.Quantity < 0 {
		return validationError("quantity must not be negative")
	}
	switch req.Type {
	case domain.AdjustIncrease, domain.AdjustDecrease, domain.AdjustSet:
	default:
		return validationError("unknown adjustment type %q", req.Type)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return validationError("reason is required")
	}
	if req.UnitCost != nil && req.UnitCost.IsNegative() {
		return validationError("unit cost must not be negative")
	}
	return nil
}

// AdjustStock applies a manual stock correction and records it in the ledger
// and the activity log within one unit of work.
func (s *inventoryService) AdjustStock(ctx context.Context, req dto.AdjustInventoryRequest, staffID string) (resp *dto.AdjustInventoryResponse, err error) {
	ctx, span := s.startSpan(ctx, "inventory.AdjustStock")
	defer func() { endSpan(span, err) }()

	if err := validateAdjustment(req, staffID); err != nil {
		s.LogWarn(ctx, err, "Rejected inventory adjustment", slog.String("product_id", req.ProductID))
		return nil, err
	}

	now := s.now().UTC()
	result := &dto.AdjustInventoryResponse{}
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		product, err := repos.Products.FindProductForUpdate(ctx, req.ProductID)
		if err != nil {
			return notFound(err, "product", req.ProductID)
		}

		previous := product.CurrentStock
		newStock, delta, err := domain.ApplyAdjustment(previous, req.Type, *req.Quantity)
		if err != nil {
			return err
		}

		product.SetStock(newStock)
		product.Touch(staffID, now)
		if err := repos.Products.UpdateProductStock(ctx, product.ProductID, product.CurrentStock, product.InStock, staffID, now); err != nil {
			return err
		}

		var unitCost = req.UnitCost
		if unitCost != nil {
			rounded := domain.RoundMoney(*unitCost)
			unitCost = &rounded
		}
		entry := domain.InventoryTransaction{
			InventoryTransactionID: uuid.NewString(),
			ProductID:              product.ProductID,
			Type:                   domain.MovementTypeForReason(req.Reason),
			Quantity:               delta,
			PreviousStock:          previous,
			NewStock:               newStock,
			Reason:                 req.Reason,
			Notes:                  req.Notes,
			UnitCost:               unitCost,
			ReferenceType:          domain.ReferenceManual,
			PerformedBy:            staffID,
			CreatedAt:              now,
		}
		if err := repos.Inventory.AppendInventoryTransactions(ctx, entry); err != nil {
			return err
		}

		result.Product = *product
		result.Transaction = entry

		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(staffID, domain.ActionInventoryAdjust, domain.EntityProduct, product.ProductID, map[string]any{
			"productName":   product.Name,
			"type":          string(req.Type),
			"quantity":      *req.Quantity,
			"previousStock": previous,
			"newStock":      newStock,
			"reason":        req.Reason,
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to adjust inventory", slog.String("product_id", req.ProductID))
		return nil, err
	}

	if s.Telemetry != nil {
		s.Telemetry.StockAdjustments.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", string(req.Type)),
			attribute.String("movement", string(result.Transaction.Type)),
		))
	}
	s.invalidateDashboard(ctx)

	s.LogInfo(ctx, "Inventory adjusted",
		slog.String("product_id", req.ProductID),
		slog.Int("previous_stock", result.Transaction.PreviousStock),
		slog.Int("new_stock", result.Transaction.NewStock))
	return result, nil
}

// ListMovements retrieves a page of a product's ledger, newest first.
func (s *inventoryService) ListMovements(ctx context.Context, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if _, err := s.productRep.FindProductByID(ctx, productID); err != nil {
		s.LogFailure(ctx, err, "Failed to find product for movements", slog.String("product_id", productID))
		return nil, notFound(err, "product", productID)
	}
	movements, nextToken, err := s.ledger.ListInventoryTransactionsByProduct(ctx, productID, params.Limit, params.NextToken)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to list inventory movements", slog.String("product_id", productID))
		return nil, err
	}
	return &dto.ListMovementsResponse{Movements: movements, NextToken: nextToken}, nil
}
