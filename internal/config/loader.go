package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies POLYSCAN_* environment variable overrides, and
// returns the final Config. An empty path skips the file and uses defaults
// plus environment only. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known POLYSCAN_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject endpoints and credentials at deploy time
// without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "POLYSCAN_CHAIN_RPC_URL")
	setStr(&cfg.Chain.ExchangeAddress, "POLYSCAN_CHAIN_EXCHANGE_ADDRESS")
	setStr(&cfg.Chain.CTFAddress, "POLYSCAN_CHAIN_CTF_ADDRESS")
	setStr(&cfg.Chain.CollateralAddress, "POLYSCAN_CHAIN_COLLATERAL_ADDRESS")
	setInt(&cfg.Chain.CollateralDecimals, "POLYSCAN_CHAIN_COLLATERAL_DECIMALS")
	setInt(&cfg.Chain.DefaultDecimals, "POLYSCAN_CHAIN_DEFAULT_DECIMALS")

	// ── Scan ──
	setUint64(&cfg.Scan.FromBlock, "POLYSCAN_SCAN_FROM_BLOCK")
	setUint64(&cfg.Scan.BlockRange, "POLYSCAN_SCAN_BLOCK_RANGE")
	setStr(&cfg.Scan.TxHash, "POLYSCAN_SCAN_TX_HASH")
	setStr(&cfg.Scan.ConditionID, "POLYSCAN_SCAN_CONDITION_ID")
	setDuration(&cfg.Scan.Interval, "POLYSCAN_SCAN_INTERVAL")
	setBool(&cfg.Scan.Archive, "POLYSCAN_SCAN_ARCHIVE")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "POLYSCAN_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "POLYSCAN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "POLYSCAN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "POLYSCAN_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "POLYSCAN_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "POLYSCAN_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "POLYSCAN_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "POLYSCAN_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "POLYSCAN_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "POLYSCAN_S3_REGION")
	setStr(&cfg.S3.Bucket, "POLYSCAN_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "POLYSCAN_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "POLYSCAN_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "POLYSCAN_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "POLYSCAN_S3_FORCE_PATH_STYLE")

	// ── Top-level ──
	setStr(&cfg.Mode, "POLYSCAN_MODE")
	setStr(&cfg.LogLevel, "POLYSCAN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
