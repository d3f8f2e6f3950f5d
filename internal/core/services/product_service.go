package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var decimalOne = decimal.NewFromInt(1)

type productService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	productRepo portsrepo.ProductReader
}

func NewProductService(uow portsrepo.UnitOfWork, products portsrepo.ProductReader, base BaseService) portssvc.ProductSvcFacade {
	return &productService{BaseService: base, uow: uow, productRepo: products}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct adds a product. Initial stock is booked through the ledger as
// a purchase so the ledger always explains the counter.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, validationError("name and category are required")
	}
	if !req.Price.IsPositive() {
		return nil, validationError("price must be positive")
	}
	if req.CostPrice.IsNegative() {
		return nil, validationError("cost price must not be negative")
	}
	if req.InitialStock < 0 || req.MinStock < 0 || req.MaxStock < 0 {
		return nil, validationError("stock levels must not be negative")
	}
	if req.InitialStock > domain.MaxQuantity || req.MinStock > domain.MaxQuantity || req.MaxStock > domain.MaxQuantity {
		return nil, validationError("stock levels must not exceed %d", domain.MaxQuantity)
	}
	taxRate := domain.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimalOne) {
		return nil, validationError("tax rate must be between 0 and 1")
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID:   uuid.NewString(),
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		Price:       domain.RoundMoney(req.Price),
		CostPrice:   domain.RoundMoney(req.CostPrice),
		TaxRate:     taxRate,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	product.SetStock(req.InitialStock)

	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Products.SaveProduct(ctx, product); err != nil {
			return err
		}
		if product.CurrentStock > 0 {
			cost := product.CostPrice
			if err := repos.Inventory.AppendInventoryTransactions(ctx, domain.InventoryTransaction{
				InventoryTransactionID: uuid.NewString(),
				ProductID:              product.ProductID,
				Type:                   domain.InventoryPurchase,
				Quantity:               product.CurrentStock,
				PreviousStock:          0,
				NewStock:               product.CurrentStock,
				Reason:                 "initial stock",
				UnitCost:               &cost,
				ReferenceType:          domain.ReferenceManual,
				PerformedBy:            creatorUserID,
				CreatedAt:              now,
			}); err != nil {
				return err
			}
		}
		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(creatorUserID, domain.ActionProductCreated, domain.EntityProduct, product.ProductID, map[string]any{
			"name":         product.Name,
			"price":        product.Price.StringFixed(2),
			"initialStock": product.CurrentStock,
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create product", slog.String("name", req.Name))
		return nil, err
	}

	s.invalidateDashboard(ctx)
	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find product", slog.String("product_id", productID))
		}
		return nil, notFound(err, "product", productID)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, portsrepo.ProductFilter{
		Search:      strings.TrimSpace(params.Search),
		Category:    strings.TrimSpace(params.Category),
		InStockOnly: params.InStock,
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list products")
		return nil, err
	}
	return products, nil
}

func (s *productService) ListLowStockProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.productRepo.ListLowStockProducts(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list low stock products")
		return nil, err
	}
	return products, nil
}
