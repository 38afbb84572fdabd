// Package config carries process configuration from the environment and
// operator-tunable review settings from a JSON file.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the immutable process configuration, populated from the
// environment at startup.
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	GCPProjectID string `envconfig:"GCP_PROJECT_ID"`

	// SettingsPath locates the mutable review-settings JSON file.
	SettingsPath string `envconfig:"SETTINGS_PATH" default:"settings.json"`

	// ProductsCSV and InventoryCSV seed the in-memory catalog when no
	// document store is configured.
	ProductsCSV  string `envconfig:"PRODUCTS_CSV"`
	InventoryCSV string `envconfig:"INVENTORY_CSV"`

	// ExportDir is where generated worksheets and packing lists land.
	ExportDir string `envconfig:"EXPORT_DIR" default:"exports"`

	// OrderRefPrefix prepends generated sales-order references,
	// e.g. "TJX" yields SO-TJX-123456.
	OrderRefPrefix string `envconfig:"ORDER_REF_PREFIX" default:"TJX"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}
