package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

func (r *Repository) SaveOrder(_ context.Context, order domain.Order) error {
	return r.write(func(d *data) error {
		if _, exists := d.orders[order.OrderID]; exists {
			return fmt.Errorf("%w: order %s already exists", apperrors.ErrDuplicate, order.OrderID)
		}
		d.orders[order.OrderID] = copyOrder(order)
		return nil
	})
}

func (r *Repository) FindOrderByID(_ context.Context, orderID string) (*domain.Order, error) {
	var (
		o  domain.Order
		ok bool
	)
	r.read(func(d *data) {
		o, ok = d.orders[orderID]
		o = copyOrder(o)
	})
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (r *Repository) FindOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := r.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = nil
	return o, nil
}

func (r *Repository) ListOrders(_ context.Context, filter portsrepo.OrderFilter) ([]domain.Order, error) {
	var matched []domain.Order
	r.read(func(d *data) {
		for _, o := range d.orders {
			if filter.Status != nil && o.Status != *filter.Status {
				continue
			}
			o.Items = nil
			matched = append(matched, o)
		}
	})
	sortOrdersNewestFirst(matched)
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *Repository) UpdateOrderStatus(_ context.Context, orderID string, status domain.OrderStatus, paymentStatus domain.PaymentStatus, updatedBy string, updatedAt time.Time) error {
	return r.write(func(d *data) error {
		o, ok := d.orders[orderID]
		if !ok {
			return apperrors.ErrNotFound
		}
		o.Status = status
		o.PaymentStatus = paymentStatus
		o.Touch(updatedBy, updatedAt)
		d.orders[orderID] = o
		return nil
	})
}

func sortOrdersNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].OrderID > orders[j].OrderID
	})
}

// GetDashboardSummary computes the same rollups as the SQL dashboard queries.
func (r *Repository) GetDashboardSummary(_ context.Context, topProducts int, recentOrders int) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		POSRevenue:     decimal.Zero,
		RefundTotal:    decimal.Zero,
		OrderRevenue:   decimal.Zero,
		OrdersByStatus: make(map[string]int),
		TopProducts:    make([]domain.TopProduct, 0, topProducts),
		GeneratedAt:    time.Now().UTC(),
	}

	type tally struct {
		name    string
		qty     int
		revenue decimal.Decimal
	}
	byProduct := make(map[string]*tally)
	var orders []domain.Order

	r.read(func(d *data) {
		for _, t := range d.posTxns {
			if t.Status == domain.POSCancelled {
				continue
			}
			summary.POSRevenue = summary.POSRevenue.Add(t.Total)
			if t.IsRefund() {
				summary.RefundTotal = summary.RefundTotal.Sub(t.Total)
			} else {
				summary.POSTransactionCount++
			}
			for _, it := range t.Items {
				tl, ok := byProduct[it.ProductID]
				if !ok {
					tl = &tally{name: it.ProductName, revenue: decimal.Zero}
					byProduct[it.ProductID] = tl
				}
				tl.qty += it.Quantity
				tl.revenue = tl.revenue.Add(it.LineTotal)
			}
		}
		for _, o := range d.orders {
			summary.OrdersByStatus[string(o.Status)]++
			if o.Status != domain.OrderCancelled && (o.PaymentStatus == domain.PaymentPaid || o.PaymentStatus == domain.PaymentPartiallyPaid) {
				summary.OrderRevenue = summary.OrderRevenue.Add(o.Total)
			}
			o.Items = nil
			orders = append(orders, o)
		}
		summary.CustomerCount = len(d.customers)
		for _, p := range d.products {
			if p.IsLowStock() {
				summary.LowStockCount++
			}
		}
	})

	for id, tl := range byProduct {
		if tl.qty > 0 {
			summary.TopProducts = append(summary.TopProducts, domain.TopProduct{
				ProductID:    id,
				ProductName:  tl.name,
				QuantitySold: tl.qty,
				Revenue:      domain.RoundMoney(tl.revenue),
			})
		}
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		a, b := summary.TopProducts[i], summary.TopProducts[j]
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		return a.ProductID < b.ProductID
	})
	if len(summary.TopProducts) > topProducts {
		summary.TopProducts = summary.TopProducts[:topProducts]
	}

	sortOrdersNewestFirst(orders)
	if len(orders) > recentOrders {
		orders = orders[:recentOrders]
	}
	summary.RecentOrders = orders
	if summary.RecentOrders == nil {
		summary.RecentOrders = []domain.Order{}
	}
	return summary, nil
}
