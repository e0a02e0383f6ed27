package main

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the till client configuration, loadable from environment
// variables (TILL_ prefix), flags, or YAML config files.
type Config struct {
	Role          string `default:"cashier" usage:"session role: cashier or customer"`
	OrderURL      string `default:"http://localhost:8081" usage:"base URL of the order service" flag:"order-url"`
	DatabaseURL   string `usage:"PostgreSQL stock backend URL; empty selects the in-memory catalogue" flag:"database-url"`
	CatalogueFile string `default:"db/seed/catalogue.json" usage:"catalogue JSON for the in-memory stock backend" flag:"catalogue-file"`
}

// LoadConfig loads configuration from environment variables and YAML files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "TILL",
		Files:     []string{"till.yaml", "/etc/ministore/till.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.Role != "cashier" && cfg.Role != "customer" {
		return nil, errors.Errorf("unknown role %q: want cashier or customer", cfg.Role)
	}

	return &cfg, nil
}
