// Package config defines the service configuration, sourced from
// environment variables (and a .env file for local runs).
package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/lunamart/catalog-service/models"
)

// Config holds all configurable parameters for the catalog service.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Addr        string `envconfig:"HTTP_ADDR" default:":8080"`

	// AdminSecret is the shared secret checked by POST /api/auth.
	AdminSecret string `envconfig:"ADMIN_SECRET" required:"true"`

	// PublicDir holds the static storefront assets; the managed uploads
	// area lives underneath it.
	PublicDir string `envconfig:"PUBLIC_DIR" default:"public"`

	// LegacyCatalog is the pre-database JSON catalog file imported once
	// when the products table is empty. Defaults to
	// <PublicDir>/products.json.
	LegacyCatalog string `envconfig:"LEGACY_CATALOG"`

	Database models.DatabaseConfig
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load populates a Config from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if cfg.LegacyCatalog == "" {
		cfg.LegacyCatalog = filepath.Join(cfg.PublicDir, "products.json")
	}
	return &cfg, nil
}
