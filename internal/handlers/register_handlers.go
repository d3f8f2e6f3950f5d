package handlers

import (
	"net/http"

	"github.com/beanline/coffee_backoffice/cmd/docs"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/beanline/coffee_backoffice/internal/platform/config"
	"github.com/beanline/coffee_backoffice/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// storefrontLimit may be nil to leave the storefront unthrottled.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
	storefrontLimit gin.HandlerFunc,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public routes: staff login and the storefront cart
	RegisterAuthRoutes(r, services.Auth)
	RegisterStoreRoutes(r, services.Cart, services.Order, storefrontLimit)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, posthogClient)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	// Apply AuthMiddleware to the entire v1 group; posthog runs after auth so events carry the staff ID
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.PosthogMiddleware(posthogClient))

	RegisterTransactionRoutes(v1, service.POS)
	RegisterInventoryRoutes(v1, service.Inventory, service.Product)
	RegisterOrderRoutes(v1, service.Order)
	RegisterCatalogueRoutes(v1, service.Product, service.Customer)
	RegisterDashboardRoutes(v1, service.Dashboard, service.Activity)
	RegisterUserRoutes(v1, service.User)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
