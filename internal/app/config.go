package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from
// environment variables (CATALOG_ prefix), flags, or YAML config files.
type Config struct {
	APIURL    string        `usage:"Catalog service base URL (CATALOG_API_URL or API_URL)" flag:"api-url"`
	Timeout   time.Duration `default:"30s" usage:"Per-request HTTP timeout"`
	StatusTTL time.Duration `default:"3s"  usage:"How long status messages stay visible" flag:"status-ttl"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CATALOG",
		Files:     []string{"config.yaml", "/etc/catalog/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.APIURL == "" {
		return nil, errors.New("catalog service URL is required: set CATALOG_API_URL or API_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that
// use bare names like API_URL to the CATALOG_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.APIURL == "" {
		if v := os.Getenv("API_URL"); v != "" {
			c.APIURL = v
		}
	}
}
