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
	"github.com/beanline/coffee_backoffice/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type orderService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	orderRepo   portsrepo.OrderReader
	productRepo portsrepo.ProductReader
	shippingFee decimal.Decimal
	now         func() time.Time
}

// OrderServiceOption is a functional option for configuring the order service
type OrderServiceOption func(*orderService)

// WithOrderBase replaces the shared cache and telemetry dependencies.
func WithOrderBase(base BaseService) OrderServiceOption {
	return func(s *orderService) {
		s.BaseService = base
	}
}

// WithShippingFee sets the flat fee added to storefront orders.
func WithShippingFee(fee decimal.Decimal) OrderServiceOption {
	return func(s *orderService) {
		s.shippingFee = fee
	}
}

func NewOrderService(uow portsrepo.UnitOfWork, orders portsrepo.OrderReader, products portsrepo.ProductReader, options ...OrderServiceOption) portssvc.OrderSvcFacade {
	svc := &orderService{
		BaseService: newBaseService(),
		uow:         uow,
		orderRepo:   orders,
		productRepo: products,
		shippingFee: decimal.Zero,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// CreateOrder places a pending storefront order. Prices and tax come from the
// catalogue; stock is not reserved.
func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actorID string) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, validationError("order must contain at least one item")
	}
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		return nil, validationError("customer name and email are required")
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, validationError("shipping address is required")
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 || item.Quantity > domain.MaxQuantity {
			return nil, validationError("item %d: quantity must be between 1 and %d", i, domain.MaxQuantity)
		}
	}

	now := s.now().UTC()
	order := domain.Order{
		OrderID:         uuid.NewString(),
		OrderNumber:     utils.NewDocumentNumber("ORD", now),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	err := s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if req.CustomerID != nil && *req.CustomerID != "" {
			c, err := repos.Customers.FindCustomerByID(ctx, *req.CustomerID)
			if err != nil {
				return notFound(err, "customer", *req.CustomerID)
			}
			order.CustomerID = &c.CustomerID
		}

		subtotal, tax := decimal.Zero, decimal.Zero
		order.Items = make([]domain.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			p, err := repos.Products.FindProductByID(ctx, item.ProductID)
			if err != nil {
				return notFound(err, "product", item.ProductID)
			}
			lineTotal, lineTax, err := domain.PriceLine(domain.SaleLine{UnitPrice: p.Price, Quantity: item.Quantity, TaxRate: p.TaxRate})
			if err != nil {
				return err
			}
			subtotal = subtotal.Add(lineTotal)
			tax = tax.Add(lineTax)
			order.Items = append(order.Items, domain.OrderItem{
				OrderItemID: uuid.NewString(),
				OrderID:     order.OrderID,
				ProductID:   p.ProductID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				UnitPrice:   p.Price,
				LineTotal:   lineTotal,
				CreatedAt:   now,
			})
		}
		order.Subtotal = domain.RoundMoney(subtotal)
		order.Tax = domain.RoundMoney(tax)
		order.ShippingFee = domain.RoundMoney(s.shippingFee)
		order.Total = domain.RoundMoney(subtotal.Add(tax).Add(s.shippingFee))

		if err := repos.Orders.SaveOrder(ctx, order); err != nil {
			return err
		}
		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(actorID, domain.ActionOrderCreated, domain.EntityOrder, order.OrderID, map[string]any{
			"orderNumber": order.OrderNumber,
			"total":       order.Total.StringFixed(2),
			"itemCount":   len(order.Items),
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create order", slog.String("customer_email", req.CustomerEmail))
		return nil, err
	}

	s.invalidateDashboard(ctx)
	s.LogInfo(ctx, "Order created", slog.String("order_id", order.OrderID), slog.String("order_number", order.OrderNumber))
	return &order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find order", slog.String("order_id", orderID))
		}
		return nil, notFound(err, "order", orderID)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error) {
	filter := portsrepo.OrderFilter{Limit: params.Limit, Offset: params.Offset}
	if params.Status != "" {
		status := domain.OrderStatus(params.Status)
		if !status.IsValid() {
			return nil, validationError("unknown order status %q", params.Status)
		}
		filter.Status = &status
	}
	orders, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders")
		return nil, err
	}
	return orders, nil
}

// UpdateOrder applies a status transition and/or a payment status change.
// Status moves are checked against the order workflow; payment status is only
// checked for membership.
func (s *orderService) UpdateOrder(ctx context.Context, orderID string, req dto.UpdateOrderRequest, actorID string) (updated *domain.Order, err error) {
	ctx, span := s.startSpan(ctx, "orders.UpdateOrder")
	defer func() { endSpan(span, err) }()

	if req.Status == nil && req.PaymentStatus == nil {
		return nil, validationError("status or paymentStatus is required")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, validationError("unknown order status %q", *req.Status)
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.IsValid() {
		return nil, validationError("unknown payment status %q", *req.PaymentStatus)
	}

	now := s.now().UTC()
	var (
		from      domain.OrderStatus
		committed domain.Order
	)
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		order, err := repos.Orders.FindOrderForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, "order", orderID)
		}
		from = order.Status

		nextStatus, nextPayment := order.Status, order.PaymentStatus
		if req.Status != nil {
			if err := order.Status.ValidateTransition(*req.Status); err != nil {
				return err
			}
			nextStatus = *req.Status
		}
		if req.PaymentStatus != nil {
			nextPayment = *req.PaymentStatus
		}

		if err := repos.Orders.UpdateOrderStatus(ctx, orderID, nextStatus, nextPayment, actorID, now); err != nil {
			return err
		}
		committed = *order
		committed.Status = nextStatus
		committed.PaymentStatus = nextPayment
		committed.Touch(actorID, now)
		return repos.ActivityLogs.AppendActivityLog(ctx, newActivityLog(actorID, domain.ActionOrderStatusUpdate, domain.EntityOrder, orderID, map[string]any{
			"orderNumber":       order.OrderNumber,
			"fromStatus":        string(order.Status),
			"toStatus":          string(nextStatus),
			"fromPaymentStatus": string(order.PaymentStatus),
			"toPaymentStatus":   string(nextPayment),
		}, now))
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to update order", slog.String("order_id", orderID))
		return nil, err
	}

	// The update is committed at this point; a failed reload falls back to the
	// header written inside the transaction.
	updated, err = s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		s.LogWarn(ctx, err, "Failed to reload updated order, returning committed header", slog.String("order_id", orderID))
		updated, err = &committed, nil
	}

	if s.Telemetry != nil && req.Status != nil {
		s.Telemetry.OrderTransitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(from)),
			attribute.String("to", string(updated.Status)),
		))
	}
	s.invalidateDashboard(ctx)

	s.LogInfo(ctx, "Order updated",
		slog.String("order_id", orderID),
		slog.String("status", string(updated.Status)),
		slog.String("payment_status", string(updated.PaymentStatus)))
	return updated, nil
}
