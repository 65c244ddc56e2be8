// Package redis implements the warm decimals cache on go-redis/v9. Resolved
// token precisions survive process restarts so a fresh scan does not re-probe
// tokens the previous run already classified.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// decimalsKey is the single hash holding every known token precision. Fields
// are checksummed token addresses, values are decimal counts. Entries have no
// TTL: a token's decimals never change.
const decimalsKey = "token:decimals"

// Config holds connection parameters for the cache.
type Config struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool
}

// DecimalsCache implements domain.DecimalsWarmCache on one Redis hash.
type DecimalsCache struct {
	rdb *redis.Client
}

// New connects to Redis, pings it to verify connectivity, and returns the
// cache. It returns an error if the connection cannot be established.
func New(ctx context.Context, cfg Config) (*DecimalsCache, error) {
	opts := &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}

	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &DecimalsCache{rdb: rdb}, nil
}

// Load fetches the whole decimals hash. Unparseable fields are skipped rather
// than failing the load; they can only come from manual edits.
func (dc *DecimalsCache) Load(ctx context.Context) (map[common.Address]uint32, error) {
	fields, err := dc.rdb.HGetAll(ctx, decimalsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load decimals: %w", err)
	}

	out := make(map[common.Address]uint32, len(fields))
	for addr, dec := range fields {
		if !common.IsHexAddress(addr) {
			continue
		}
		n, err := strconv.ParseUint(dec, 10, 32)
		if err != nil {
			continue
		}
		out[common.HexToAddress(addr)] = uint32(n)
	}
	return out, nil
}

// Store writes the given decimals into the hash, overwriting prior values for
// the same addresses and leaving other entries in place.
func (dc *DecimalsCache) Store(ctx context.Context, decimals map[common.Address]uint32) error {
	if len(decimals) == 0 {
		return nil
	}

	fields := make([]any, 0, len(decimals)*2)
	for addr, dec := range decimals {
		fields = append(fields, addr.Hex(), strconv.FormatUint(uint64(dec), 10))
	}

	if err := dc.rdb.HSet(ctx, decimalsKey, fields...).Err(); err != nil {
		return fmt.Errorf("redis: store decimals: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (dc *DecimalsCache) Ping(ctx context.Context) error {
	if err := dc.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (dc *DecimalsCache) Close() error {
	return dc.rdb.Close()
}
