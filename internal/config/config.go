package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"cryptodash/internal/logging"
	"cryptodash/internal/market"
)

type Server struct {
	Port              string `json:"port" yaml:"port" env:"PORT"`
	RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec" env:"REQUEST_TIMEOUT_SEC"`
}

type CoinGecko struct {
	BaseURL   string `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	APIKey    string `json:"api_key" yaml:"api_key" env:"API_KEY"`
	UserAgent string `json:"user_agent" yaml:"user_agent" env:"USER_AGENT"`
}

// Market overrides the built-in lookup tables. Empty maps keep the built-ins.
type Market struct {
	Symbols               map[string]string  `json:"symbols" yaml:"symbols" env:"SYMBOLS"`
	ReferencePrices       map[string]float64 `json:"reference_prices" yaml:"reference_prices" env:"REFERENCE_PRICES"`
	DefaultReferencePrice float64            `json:"default_reference_price" yaml:"default_reference_price" env:"DEFAULT_REFERENCE_PRICE"`
}

type Config struct {
	Server    Server         `json:"server" yaml:"server"`
	CoinGecko CoinGecko      `json:"coingecko" yaml:"coingecko" envPrefix:"COINGECKO_"`
	Market    Market         `json:"market" yaml:"market" envPrefix:"MARKET_"`
	Log       logging.Config `json:"log" yaml:"log" envPrefix:"LOG_"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		CoinGecko: CoinGecko{
			BaseURL:   "https://api.coingecko.com/api/v3",
			UserAgent: "cryptodash/1.0",
		},
		Market: Market{DefaultReferencePrice: market.DefaultReferencePrice},
		Log:    logging.Config{Level: "info"},
	}
}

// Load reads the config file at path on top of the defaults. JSON is assumed
// unless the extension is .yaml or .yml. If path is empty, config.json or
// config.yaml in the working directory is used when present. Environment
// variables (optionally from a .env file) override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, candidate := range []string{"config.json", "config.yaml", "config.yml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := decode(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port is empty"))
	}
	if c.Server.RequestTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout_sec must be positive, got %d", c.Server.RequestTimeoutSec))
	}
	if u, err := url.Parse(c.CoinGecko.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("coingecko.base_url is not an absolute URL: %q", c.CoinGecko.BaseURL))
	}
	return errors.Join(errs...)
}

// SymbolMap returns the configured ticker table, or the built-in one.
func (m Market) SymbolMap() market.SymbolMap {
	if len(m.Symbols) == 0 {
		return market.DefaultSymbolMap()
	}
	return market.NewSymbolMap(m.Symbols)
}

// ReferencePriceTable returns the configured reference prices, or the built-in ones.
func (m Market) ReferencePriceTable() market.ReferencePrices {
	if len(m.ReferencePrices) == 0 {
		return market.DefaultReferencePrices().WithDefault(m.DefaultReferencePrice)
	}
	return market.NewReferencePrices(m.ReferencePrices, m.DefaultReferencePrice)
}
