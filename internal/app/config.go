package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the order daemon configuration, loadable from environment
// variables (ORDERD_ prefix), flags, or YAML config files.
type Config struct {
	Addr     string `default:"0.0.0.0:8081" usage:"order service listen address"`
	Graceful GracefulConfig
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ORDERD",
		Files:     []string{"orderd.yaml", "/etc/ministore/orderd.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if port := os.Getenv("PORT"); port != "" && cfg.Addr == "0.0.0.0:8081" {
		cfg.Addr = "0.0.0.0:" + port
	}

	return &cfg, nil
}
