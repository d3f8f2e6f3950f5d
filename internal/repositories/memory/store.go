// Package memory is an in-process implementation of the repository ports.
// It backs development runs without PostgreSQL and the service tests, and
// gives WithinTransaction real all-or-nothing semantics: the callback works
// on a private copy that replaces the live data only when it returns nil.
package memory

import (
	"context"
	"sync"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
)

type data struct {
	products  map[string]domain.Product
	posTxns   map[string]domain.POSTransaction
	inventory []domain.InventoryTransaction
	customers map[string]domain.Customer
	orders    map[string]domain.Order
	activity  []domain.ActivityLog
	users     map[string]domain.User
}

func newData() *data {
	return &data{
		products:  make(map[string]domain.Product),
		posTxns:   make(map[string]domain.POSTransaction),
		customers: make(map[string]domain.Customer),
		orders:    make(map[string]domain.Order),
		users:     make(map[string]domain.User),
	}
}

func (d *data) clone() *data {
	c := &data{
		products:  make(map[string]domain.Product, len(d.products)),
		posTxns:   make(map[string]domain.POSTransaction, len(d.posTxns)),
		inventory: append([]domain.InventoryTransaction(nil), d.inventory...),
		customers: make(map[string]domain.Customer, len(d.customers)),
		orders:    make(map[string]domain.Order, len(d.orders)),
		activity:  append([]domain.ActivityLog(nil), d.activity...),
		users:     make(map[string]domain.User, len(d.users)),
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.posTxns {
		c.posTxns[k] = copyPOSTransaction(v)
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store owns the live data. Transactions are serialised, which stands in for
// the row locks taken by the PostgreSQL repositories.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *data
}

func NewStore() *Store {
	return &Store{data: newData()}
}

// Repository implements every repository port against a Store. Inside a unit
// of work it is bound to the transaction's private copy.
type Repository struct {
	store *Store
	tx    *data
}

func (r *Repository) read(fn func(d *data)) {
	if r.tx != nil {
		fn(r.tx)
		return
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	fn(r.store.data)
}

func (r *Repository) write(fn func(d *data) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.data)
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	u.store.mu.RLock()
	working := u.store.data.clone()
	u.store.mu.RUnlock()

	repo := &Repository{store: u.store, tx: working}
	if err := fn(ctx, portsrepo.TxRepositories{
		Products:        repo,
		POSTransactions: repo,
		Inventory:       repo,
		Customers:       repo,
		Orders:          repo,
		ActivityLogs:    repo,
	}); err != nil {
		return err
	}

	u.store.mu.Lock()
	u.store.data = working
	u.store.mu.Unlock()
	return nil
}

// NewRepositoryProvider wires every port to one in-memory store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	repo := &Repository{store: store}
	return portsrepo.RepositoryProvider{
		ProductRepo:     repo,
		POSRepo:         repo,
		InventoryRepo:   repo,
		CustomerRepo:    repo,
		OrderRepo:       repo,
		ActivityLogRepo: repo,
		UserRepo:        repo,
		DashboardRepo:   repo,
		UnitOfWork:      &unitOfWork{store: store},
	}
}

var (
	_ portsrepo.ProductRepositoryFacade        = (*Repository)(nil)
	_ portsrepo.POSTransactionRepositoryFacade = (*Repository)(nil)
	_ portsrepo.InventoryLedgerFacade          = (*Repository)(nil)
	_ portsrepo.CustomerRepositoryFacade       = (*Repository)(nil)
	_ portsrepo.OrderRepositoryFacade          = (*Repository)(nil)
	_ portsrepo.ActivityLogRepositoryFacade    = (*Repository)(nil)
	_ portsrepo.UserRepositoryFacade           = (*Repository)(nil)
	_ portsrepo.DashboardReader                = (*Repository)(nil)
	_ portsrepo.UnitOfWork                     = (*unitOfWork)(nil)
)

func copyPOSTransaction(t domain.POSTransaction) domain.POSTransaction {
	t.Items = append([]domain.POSTransactionItem(nil), t.Items...)
	return t
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}
