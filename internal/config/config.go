// Package config defines the top-level configuration for the polyscan scanner
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by POLYSCAN_* environment variables.
type Config struct {
	Chain    ChainConfig `toml:"chain"`
	Scan     ScanConfig  `toml:"scan"`
	Redis    RedisConfig `toml:"redis"`
	S3       S3Config    `toml:"s3"`
	Mode     string      `toml:"mode"`
	LogLevel string      `toml:"log_level"`
}

// ChainConfig holds the RPC endpoint and contract deployment parameters.
type ChainConfig struct {
	RPCURL             string `toml:"rpc_url"`
	ExchangeAddress    string `toml:"exchange_address"`
	CTFAddress         string `toml:"ctf_address"`
	CollateralAddress  string `toml:"collateral_address"`
	CollateralDecimals int    `toml:"collateral_decimals"`
	DefaultDecimals    int    `toml:"default_decimals"`
}

// ScanConfig holds the query parameters of a single run: block windows for the
// range modes, the lookup targets for the tx and condition modes, the poll
// interval for scrape mode, and whether batch results are archived.
type ScanConfig struct {
	FromBlock   uint64   `toml:"from_block"`
	BlockRange  uint64   `toml:"block_range"`
	TxHash      string   `toml:"tx_hash"`
	ConditionID string   `toml:"condition_id"`
	Interval    duration `toml:"interval"`
	Archive     bool     `toml:"archive"`
}

// RedisConfig holds Redis connection parameters for the warm decimals cache.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for the batch
// archiver.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "30s", "5m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the Polygon mainnet deployment of
// the CTF Exchange, the Conditional Tokens contract, and bridged USDC. These
// match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Chain: ChainConfig{
			RPCURL:             "https://polygon-rpc.com",
			ExchangeAddress:    "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E",
			CTFAddress:         "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045",
			CollateralAddress:  "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
			CollateralDecimals: 6,
			DefaultDecimals:    18,
		},
		Scan: ScanConfig{
			BlockRange: 1000,
			Interval:   duration{30 * time.Second},
			Archive:    false,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "polyscan-data",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Mode:     "scan",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":      true,
	"tx":        true,
	"market":    true,
	"markets":   true,
	"condition": true,
	"scrape":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, tx, market, markets, condition, scrape)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Chain
	if strings.TrimSpace(c.Chain.RPCURL) == "" {
		errs = append(errs, "chain: rpc_url must not be empty")
	}
	for _, addr := range []struct{ name, value string }{
		{"exchange_address", c.Chain.ExchangeAddress},
		{"ctf_address", c.Chain.CTFAddress},
		{"collateral_address", c.Chain.CollateralAddress},
	} {
		if !common.IsHexAddress(addr.value) {
			errs = append(errs, fmt.Sprintf("chain: %s %q is not a valid address", addr.name, addr.value))
		}
	}
	if c.Chain.CollateralDecimals < 0 || c.Chain.CollateralDecimals > 77 {
		errs = append(errs, fmt.Sprintf("chain: collateral_decimals must be 0-77, got %d", c.Chain.CollateralDecimals))
	}
	if c.Chain.DefaultDecimals < 0 || c.Chain.DefaultDecimals > 77 {
		errs = append(errs, fmt.Sprintf("chain: default_decimals must be 0-77, got %d", c.Chain.DefaultDecimals))
	}

	// Scan — per-mode required inputs.
	switch mode {
	case "tx", "market":
		if !isHexHash(c.Scan.TxHash) {
			errs = append(errs, fmt.Sprintf("scan: tx_hash %q is not a valid transaction hash (required for mode %s)", c.Scan.TxHash, mode))
		}
	case "condition":
		if !isHexHash(c.Scan.ConditionID) {
			errs = append(errs, fmt.Sprintf("scan: condition_id %q is not a valid condition id (required for mode condition)", c.Scan.ConditionID))
		}
	case "scan", "markets", "scrape":
		if c.Scan.BlockRange == 0 {
			errs = append(errs, "scan: block_range must be >= 1 for range modes")
		}
	}
	if mode == "scrape" && c.Scan.Interval.Duration <= 0 {
		errs = append(errs, "scan: interval must be positive for scrape mode")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when enabled")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
	}
	if c.Scan.Archive && !c.S3.Enabled {
		errs = append(errs, "scan: archive requires s3.enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// isHexHash reports whether s is a 0x-prefixed 32-byte hex string.
func isHexHash(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) != 66 {
		return false
	}
	for _, r := range s[2:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
