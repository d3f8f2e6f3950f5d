package services

import (
	"github.com/beanline/coffee_backoffice/internal/cache"
	"github.com/beanline/coffee_backoffice/internal/cart"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/platform/config"
	"github.com/beanline/coffee_backoffice/internal/platform/telemetry"
)

// containerDeps are the infrastructure pieces shared across services.
type containerDeps struct {
	dashboardCache cache.DashboardCache
	cartStore      cart.Store
	instruments    *telemetry.Instruments
}

// ContainerOption is a functional option for configuring the service container
type ContainerOption func(*containerDeps)

// WithDashboardCache sets the cache holding dashboard summaries.
func WithDashboardCache(c cache.DashboardCache) ContainerOption {
	return func(d *containerDeps) {
		d.dashboardCache = c
	}
}

// WithCartStore sets where storefront carts are persisted.
func WithCartStore(store cart.Store) ContainerOption {
	return func(d *containerDeps) {
		d.cartStore = store
	}
}

// WithInstruments sets the tracer and counters used by the services.
func WithInstruments(ins *telemetry.Instruments) ContainerOption {
	return func(d *containerDeps) {
		d.instruments = ins
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{
		dashboardCache: cache.NoopDashboardCache{},
		cartStore:      cart.NewMemoryStore(),
	}
	for _, option := range options {
		option(deps)
	}
	if deps.instruments == nil {
		deps.instruments = telemetry.NewInstruments()
	}

	base := BaseService{DashboardCache: deps.dashboardCache, Telemetry: deps.instruments}

	container := &portssvc.ServiceContainer{}

	container.POS = NewPOSService(repos.UnitOfWork, repos.POSRepo,
		WithPOSBase(base),
		WithStandardTaxRate(cfg.StandardTaxRate),
	)
	container.Inventory = NewInventoryService(repos.UnitOfWork, repos.ProductRepo, repos.InventoryRepo, WithInventoryBase(base))
	container.Order = NewOrderService(repos.UnitOfWork, repos.OrderRepo, repos.ProductRepo, WithOrderBase(base), WithShippingFee(cfg.ShippingFee))
	container.Product = NewProductService(repos.UnitOfWork, repos.ProductRepo, base)
	container.Customer = NewCustomerService(repos.UnitOfWork, repos.CustomerRepo, base)
	container.Activity = NewActivityService(repos.ActivityLogRepo)
	container.Dashboard = NewDashboardService(repos.DashboardRepo, cfg.DashboardCacheTTL, base)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, container.User)

	container.Cart = cart.NewService(deps.cartStore, repos.ProductRepo)

	return container
}
