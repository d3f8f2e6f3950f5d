package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
)

func (r *Repository) SaveProduct(_ context.Context, product domain.Product) error {
	return r.write(func(d *data) error {
		if _, exists := d.products[product.ProductID]; exists {
			return fmt.Errorf("%w: product with ID %s already exists", apperrors.ErrDuplicate, product.ProductID)
		}
		d.products[product.ProductID] = product
		return nil
	})
}

func (r *Repository) FindProductByID(_ context.Context, productID string) (*domain.Product, error) {
	var (
		p  domain.Product
		ok bool
	)
	r.read(func(d *data) { p, ok = d.products[productID] })
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (r *Repository) FindProductForUpdate(ctx context.Context, productID string) (*domain.Product, error) {
	return r.FindProductByID(ctx, productID)
}

func (r *Repository) FindProductsByIDs(_ context.Context, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	r.read(func(d *data) {
		for _, id := range productIDs {
			if p, ok := d.products[id]; ok {
				out[id] = p
			}
		}
	})
	return out, nil
}

func (r *Repository) ListProducts(_ context.Context, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []domain.Product
	r.read(func(d *data) {
		for _, p := range d.products {
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.Brand), search) {
				continue
			}
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if filter.InStockOnly && !p.InStock {
				continue
			}
			matched = append(matched, p)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ProductID < matched[j].ProductID
	})
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *Repository) ListLowStockProducts(_ context.Context, limit int) ([]domain.Product, error) {
	var low []domain.Product
	r.read(func(d *data) {
		for _, p := range d.products {
			if p.IsLowStock() {
				low = append(low, p)
			}
		}
	})
	sort.Slice(low, func(i, j int) bool {
		if low[i].CurrentStock != low[j].CurrentStock {
			return low[i].CurrentStock < low[j].CurrentStock
		}
		return low[i].Name < low[j].Name
	})
	return paginate(low, limit, 0), nil
}

func (r *Repository) UpdateProductStock(_ context.Context, productID string, currentStock int, inStock bool, updatedBy string, updatedAt time.Time) error {
	return r.write(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return apperrors.ErrProductNotFound
		}
		if currentStock < 0 {
			return fmt.Errorf("stock of product %s cannot be negative", productID)
		}
		p.CurrentStock = currentStock
		p.InStock = inStock
		p.Touch(updatedBy, updatedAt)
		d.products[productID] = p
		return nil
	})
}

func (r *Repository) SaveCustomer(_ context.Context, customer domain.Customer) error {
	return r.write(func(d *data) error {
		if _, exists := d.customers[customer.CustomerID]; exists {
			return fmt.Errorf("%w: customer with ID %s already exists", apperrors.ErrDuplicate, customer.CustomerID)
		}
		d.customers[customer.CustomerID] = customer
		return nil
	})
}

func (r *Repository) FindCustomerByID(_ context.Context, customerID string) (*domain.Customer, error) {
	var (
		c  domain.Customer
		ok bool
	)
	r.read(func(d *data) { c, ok = d.customers[customerID] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *Repository) FindCustomerForUpdate(ctx context.Context, customerID string) (*domain.Customer, error) {
	return r.FindCustomerByID(ctx, customerID)
}

func (r *Repository) ListCustomers(_ context.Context, limit int, offset int) ([]domain.Customer, error) {
	var all []domain.Customer
	r.read(func(d *data) {
		for _, c := range d.customers {
			all = append(all, c)
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].CustomerID < all[j].CustomerID
	})
	return paginate(all, limit, offset), nil
}

func (r *Repository) UpdateLoyaltyPoints(_ context.Context, customerID string, points int, updatedBy string, updatedAt time.Time) error {
	return r.write(func(d *data) error {
		c, ok := d.customers[customerID]
		if !ok {
			return apperrors.ErrNotFound
		}
		if points < 0 {
			return fmt.Errorf("loyalty points of customer %s cannot be negative", customerID)
		}
		c.LoyaltyPoints = points
		c.Touch(updatedBy, updatedAt)
		d.customers[customerID] = c
		return nil
	})
}

func (r *Repository) SaveUser(_ context.Context, user domain.User) error {
	return r.write(func(d *data) error {
		for _, u := range d.users {
			if u.DeletedAt == nil && strings.EqualFold(u.Email, user.Email) {
				return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, user.Email)
			}
		}
		d.users[user.UserID] = user
		return nil
	})
}

func (r *Repository) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	var (
		u  domain.User
		ok bool
	)
	r.read(func(d *data) { u, ok = d.users[userID] })
	if !ok || u.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *Repository) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	var found *domain.User
	r.read(func(d *data) {
		for _, u := range d.users {
			if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (r *Repository) FindUsers(_ context.Context, limit int, offset int) ([]domain.User, error) {
	var active []domain.User
	r.read(func(d *data) {
		for _, u := range d.users {
			if u.DeletedAt == nil {
				active = append(active, u)
			}
		}
	})
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].UserID > active[j].UserID
	})
	return paginate(active, limit, offset), nil
}

func (r *Repository) MarkUserDeleted(_ context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	return r.write(func(d *data) error {
		u, ok := d.users[userID]
		if !ok || u.DeletedAt != nil {
			return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
		}
		u.DeletedAt = &deletedAt
		u.Touch(deletedBy, deletedAt)
		d.users[userID] = u
		return nil
	})
}

// paginate applies limit/offset the way the SQL repositories do; a
// non-positive limit means the default page size.
func paginate[T any](rows []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end]
}
