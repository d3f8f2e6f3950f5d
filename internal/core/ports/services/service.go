package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	POS       POSSvcFacade
	Inventory InventorySvcFacade
	Order     OrderSvcFacade
	Product   ProductSvcFacade
	Customer  CustomerSvcFacade
	Activity  ActivitySvcFacade
	Dashboard DashboardSvcFacade
	User      UserSvcFacade
	Auth      AuthSvcFacade
	Cart      CartSvcFacade
}
