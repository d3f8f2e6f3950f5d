package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Redis backs cart persistence and the dashboard cache. Empty RedisAddr
	// switches both to in-process implementations.
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	DashboardCacheTTL time.Duration
	CartTTL           time.Duration

	StandardTaxRate     decimal.Decimal
	ShippingFee         decimal.Decimal
	CORSAllowedOrigins  []string
	StorefrontRateLimit string

	OTelEnabled  bool
	OTelEndpoint string
	ServiceName  string

	PosthogAPIKey   string
	PosthogEndpoint string

	// BootstrapAdmin* create the first admin account when the users table is empty.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "8h")
	v.SetDefault("JWT_ISSUER", "coffee-backoffice")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")
	v.SetDefault("CART_TTL", "720h")
	v.SetDefault("STANDARD_TAX_RATE", "0.15")
	v.SetDefault("SHIPPING_FEE", "0")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("STOREFRONT_RATE_LIMIT", "120-M")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("SERVICE_NAME", "coffee-backoffice")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		StorefrontRateLimit: v.GetString("STOREFRONT_RATE_LIMIT"),
		OTelEnabled:         v.GetBool("OTEL_ENABLED"),
		OTelEndpoint:        v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:         v.GetString("SERVICE_NAME"),
		PosthogAPIKey:       v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:     v.GetString("POSTHOG_ENDPOINT"),

		BootstrapAdminEmail:    v.GetString("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapAdminPassword: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	var err error
	if cfg.JWTExpiryDuration, err = parseDuration(v, "JWT_EXPIRY_DURATION"); err != nil {
		return nil, err
	}
	if cfg.DashboardCacheTTL, err = parseDuration(v, "DASHBOARD_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = parseDuration(v, "CART_TTL"); err != nil {
		return nil, err
	}

	cfg.StandardTaxRate, err = decimal.NewFromString(v.GetString("STANDARD_TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_TAX_RATE %q: %w", v.GetString("STANDARD_TAX_RATE"), err)
	}
	if cfg.StandardTaxRate.IsNegative() || cfg.StandardTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("STANDARD_TAX_RATE must be between 0 and 1, got %s", cfg.StandardTaxRate)
	}

	cfg.ShippingFee, err = decimal.NewFromString(v.GetString("SHIPPING_FEE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_FEE %q: %w", v.GetString("SHIPPING_FEE"), err)
	}
	if cfg.ShippingFee.IsNegative() {
		return nil, fmt.Errorf("SHIPPING_FEE must not be negative, got %s", cfg.ShippingFee)
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
