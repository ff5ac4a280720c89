package config

import (
	"fmt"
	"os"

	"chainfolio/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server    ServerConfig               `yaml:"server"`
	Networks  []entity.NetworkDefinition `yaml:"networks"`
	Providers ProvidersConfig            `yaml:"providers"`
	Portfolio PortfolioConfig            `yaml:"portfolio"`
	Prices    PriceServiceConfig         `yaml:"prices"`
	Refresh   RefreshConfig              `yaml:"refresh"`
	Logging   LoggingConfig              `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// ProviderConfig holds the settings for one external data provider.
// A missing API key is not an error: the asset class served by that
// provider degrades to empty results.
type ProviderConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ProvidersConfig groups the four upstream providers.
type ProvidersConfig struct {
	Covalent  ProviderConfig `yaml:"covalent"`
	Alchemy   ProviderConfig `yaml:"alchemy"`
	Debank    ProviderConfig `yaml:"debank"`
	CoinGecko ProviderConfig `yaml:"coinGecko"`
}

// PortfolioConfig holds aggregation settings.
type PortfolioConfig struct {
	DefaultNetworks       []string `yaml:"defaultNetworks"`
	AdapterTimeoutMillis  int64    `yaml:"adapterTimeoutMillis"`
	CycleMarginMillis     int64    `yaml:"cycleMarginMillis"`
	MaxConcurrentNetworks int      `yaml:"maxConcurrentNetworks"`
}

// PriceServiceConfig holds settings for price enrichment.
type PriceServiceConfig struct {
	CacheTTLMinutes   int     `yaml:"cacheTTLMinutes"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// RefreshConfig holds refresh-controller settings.
type RefreshConfig struct {
	AutoRefreshIntervalSeconds int `yaml:"autoRefreshIntervalSeconds"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// envKeyOverrides maps environment variables onto provider API keys so
// secrets can stay out of the YAML file.
var envKeyOverrides = map[string]func(*Config, string){
	"COVALENT_API_KEY":  func(c *Config, v string) { c.Providers.Covalent.APIKey = v },
	"ALCHEMY_API_KEY":   func(c *Config, v string) { c.Providers.Alchemy.APIKey = v },
	"DEBANK_API_KEY":    func(c *Config, v string) { c.Providers.Debank.APIKey = v },
	"COINGECKO_API_KEY": func(c *Config, v string) { c.Providers.CoinGecko.APIKey = v },
}

// LoadConfig loads configuration from a YAML file, applies environment
// overrides for provider keys and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	for envKey, apply := range envKeyOverrides {
		if v := os.Getenv(envKey); v != "" {
			apply(&cfg, v)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if len(c.Networks) == 0 {
		c.Networks = DefaultNetworks()
	}
	if len(c.Portfolio.DefaultNetworks) == 0 {
		c.Portfolio.DefaultNetworks = []string{"ethereum", "optimism", "base"}
	}
	if c.Portfolio.AdapterTimeoutMillis == 0 {
		c.Portfolio.AdapterTimeoutMillis = 10000
	}
	if c.Portfolio.CycleMarginMillis == 0 {
		c.Portfolio.CycleMarginMillis = 2000
	}
	if c.Portfolio.MaxConcurrentNetworks == 0 {
		c.Portfolio.MaxConcurrentNetworks = 5
	}
	if c.Prices.CacheTTLMinutes == 0 {
		c.Prices.CacheTTLMinutes = 5
	}
	if c.Prices.RequestsPerSecond == 0 {
		c.Prices.RequestsPerSecond = 2
	}
	if c.Prices.Burst == 0 {
		c.Prices.Burst = 1
	}
	if c.Providers.Covalent.BaseURL == "" {
		c.Providers.Covalent.BaseURL = "https://api.covalenthq.com"
	}
	if c.Providers.Alchemy.BaseURL == "" {
		c.Providers.Alchemy.BaseURL = "https://eth-mainnet.g.alchemy.com"
	}
	if c.Providers.Debank.BaseURL == "" {
		c.Providers.Debank.BaseURL = "https://pro-openapi.debank.com"
	}
	if c.Providers.CoinGecko.BaseURL == "" {
		c.Providers.CoinGecko.BaseURL = "https://api.coingecko.com"
	}
	for _, p := range []*ProviderConfig{
		&c.Providers.Covalent, &c.Providers.Alchemy,
		&c.Providers.Debank, &c.Providers.CoinGecko,
	} {
		if p.RequestTimeoutMillis == 0 {
			p.RequestTimeoutMillis = c.Portfolio.AdapterTimeoutMillis
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// DefaultNetworks returns the built-in network set used when the config
// file does not define one.
func DefaultNetworks() []entity.NetworkDefinition {
	return []entity.NetworkDefinition{
		{Identifier: "ethereum", Name: "Ethereum", ChainID: 1, NativeSymbol: "ETH", NativeDecimals: 18,
			CovalentChainName: "eth-mainnet", AlchemyNetwork: "eth-mainnet", DebankChainID: "eth"},
		{Identifier: "optimism", Name: "Optimism", ChainID: 10, NativeSymbol: "ETH", NativeDecimals: 18,
			CovalentChainName: "optimism-mainnet", AlchemyNetwork: "opt-mainnet", DebankChainID: "op"},
		{Identifier: "base", Name: "Base", ChainID: 8453, NativeSymbol: "ETH", NativeDecimals: 18,
			CovalentChainName: "base-mainnet", AlchemyNetwork: "base-mainnet", DebankChainID: "base"},
		{Identifier: "arbitrum", Name: "Arbitrum", ChainID: 42161, NativeSymbol: "ETH", NativeDecimals: 18,
			CovalentChainName: "arbitrum-mainnet", AlchemyNetwork: "arb-mainnet", DebankChainID: "arb"},
		{Identifier: "polygon", Name: "Polygon", ChainID: 137, NativeSymbol: "MATIC", NativeDecimals: 18,
			CovalentChainName: "matic-mainnet", AlchemyNetwork: "polygon-mainnet", DebankChainID: "matic"},
	}
}

// NetworkByIdentifier returns the definition for a network identifier,
// case-sensitively as identifiers are stored lowercase.
func (c *Config) NetworkByIdentifier(identifier string) (entity.NetworkDefinition, bool) {
	for _, n := range c.Networks {
		if n.Identifier == identifier {
			return n, true
		}
	}
	return entity.NetworkDefinition{}, false
}
