package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Data    DataConfig    `envconfig:"DATA"`
	Market  MarketConfig  `envconfig:"MARKET"`
	Logging LoggingConfig `envconfig:"LOGGING"`
}

// ServerConfig represents HTTP API parameters
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	RefreshInterval time.Duration `envconfig:"SERVER_REFRESH_INTERVAL" default:"10m"`
}

// DataConfig represents the swap table source and account derivation parameters
type DataConfig struct {
	// CSVPath takes priority over CSVURL when both are set
	CSVPath   string `envconfig:"DATA_CSV_PATH" required:"false"`
	CSVURL    string `envconfig:"DATA_CSV_URL" required:"false"`
	NodeLimit int    `envconfig:"DATA_NODE_LIMIT" default:"500"`

	// Fallback validator-API derivation when no CSV source is configured
	LCDBaseURL     string `envconfig:"DATA_LCD_BASE_URL" default:"https://lcd-cosmoshub.keplr.app"`
	ValidatorLimit int    `envconfig:"DATA_VALIDATOR_LIMIT" default:"150"`
}

// MarketConfig represents benchmark market data parameters
type MarketConfig struct {
	CoinID      string        `envconfig:"MARKET_COIN_ID" default:"cosmos"`
	HistoryDays int           `envconfig:"MARKET_HISTORY_DAYS" default:"30"`
	HTTPTimeout time.Duration `envconfig:"MARKET_HTTP_TIMEOUT" default:"10s"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Data.NodeLimit < 1 {
		return fmt.Errorf("node_limit must be at least 1")
	}
	if c.Data.ValidatorLimit < 1 {
		return fmt.Errorf("validator_limit must be at least 1")
	}
	if c.Market.HistoryDays < 1 {
		return fmt.Errorf("market history_days must be at least 1")
	}
	if c.Server.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh_interval must be at least 1m")
	}
	return nil
}

// HasCSVSource reports whether a swap table source is configured
func (c *DataConfig) HasCSVSource() bool {
	return c.CSVPath != "" || c.CSVURL != ""
}
