package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/candlelab/backtester/market"
	"github.com/candlelab/backtester/strategies"
	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest configuration
type Config struct {
	Backtest BacktestConfig    `json:"backtest" yaml:"backtest"`
	Params   strategies.Params `json:"params" yaml:"params"`
	Data     DataConfig        `json:"data" yaml:"data"`
	Journal  JournalConfig     `json:"journal" yaml:"journal"`
	Log      LogConfig         `json:"log" yaml:"log"`
}

// BacktestConfig selects what is simulated
type BacktestConfig struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	Timeframe      string  `json:"timeframe" yaml:"timeframe"`
	Strategy       string  `json:"strategy" yaml:"strategy"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// DataConfig points at the candle source
type DataConfig struct {
	CandlesFile string `json:"candles_file" yaml:"candles_file"` // CSV, optionally .xz
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	OrgFile    string `json:"org_file,omitempty" yaml:"org_file,omitempty"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the fields the CLI depends on. Strategy params are left
// unchecked: the engine accepts any values.
func (c *Config) Validate() error {
	if c.Backtest.Symbol == "" {
		return fmt.Errorf("backtest.symbol is required")
	}
	if _, err := market.ParseTimeframe(c.Backtest.Timeframe); err != nil {
		return fmt.Errorf("backtest.timeframe: %w", err)
	}
	if _, err := strategies.ParseKind(c.Backtest.Strategy); err != nil {
		return fmt.Errorf("backtest.strategy: %w", err)
	}
	if c.Backtest.InitialCapital < 0 {
		return fmt.Errorf("backtest.initial_capital must not be negative")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Backtest: BacktestConfig{
			Symbol:         "BTCUSDT",
			Timeframe:      string(market.H1),
			Strategy:       string(strategies.MACrossover),
			InitialCapital: 10000,
		},
		Params: strategies.DefaultParams(),
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtests.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
