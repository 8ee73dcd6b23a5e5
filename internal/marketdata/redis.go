package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"solana-copytrade-lab/internal/domain"
)

// RedisProvider is a read-through cache in front of another Provider.
// Records are stored as JSON strings under "snapshot:{mint}" and
// "profile:{wallet}". Intended for the live tail path; the offline
// deterministic core uses MemoryProvider directly.
type RedisProvider struct {
	rdb    *redis.Client
	origin Provider
	ttl    time.Duration
}

// NewRedisProvider creates a cache backed by the given client. It pings
// the server to verify connectivity.
func NewRedisProvider(ctx context.Context, addr string, origin Provider, ttl time.Duration) (*RedisProvider, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisProvider{rdb: rdb, origin: origin, ttl: ttl}, nil
}

// Close releases the underlying connection pool.
func (p *RedisProvider) Close() error {
	return p.rdb.Close()
}

func snapshotKey(mint string) string {
	return "snapshot:" + mint
}

func profileKey(wallet string) string {
	return "profile:" + wallet
}

// Snapshot implements Provider. Cache misses fall through to the origin;
// origin misses are cached as an empty sentinel to avoid repeated lookups.
func (p *RedisProvider) Snapshot(ctx context.Context, mint string) (*domain.TokenSnapshot, bool, error) {
	raw, err := p.rdb.Get(ctx, snapshotKey(mint)).Result()
	switch {
	case err == nil:
		if raw == "" {
			return nil, false, nil
		}
		var s domain.TokenSnapshot
		if jsonErr := json.Unmarshal([]byte(raw), &s); jsonErr != nil {
			return nil, false, fmt.Errorf("redis: parse snapshot %s: %w", mint, jsonErr)
		}
		return &s, true, nil
	case errors.Is(err, redis.Nil):
		// fall through to origin
	default:
		return nil, false, fmt.Errorf("redis: get snapshot %s: %w", mint, err)
	}

	s, ok, err := p.origin.Snapshot(ctx, mint)
	if err != nil {
		return nil, false, err
	}

	payload := ""
	if ok {
		data, jsonErr := json.Marshal(s)
		if jsonErr != nil {
			return nil, false, fmt.Errorf("redis: encode snapshot %s: %w", mint, jsonErr)
		}
		payload = string(data)
	}
	if setErr := p.rdb.Set(ctx, snapshotKey(mint), payload, p.ttl).Err(); setErr != nil {
		return nil, false, fmt.Errorf("redis: set snapshot %s: %w", mint, setErr)
	}

	return s, ok, nil
}

// Profile implements Provider with the same read-through semantics.
func (p *RedisProvider) Profile(ctx context.Context, wallet string) (*domain.WalletProfile, bool, error) {
	raw, err := p.rdb.Get(ctx, profileKey(wallet)).Result()
	switch {
	case err == nil:
		if raw == "" {
			return nil, false, nil
		}
		var w domain.WalletProfile
		if jsonErr := json.Unmarshal([]byte(raw), &w); jsonErr != nil {
			return nil, false, fmt.Errorf("redis: parse profile %s: %w", wallet, jsonErr)
		}
		return &w, true, nil
	case errors.Is(err, redis.Nil):
		// fall through to origin
	default:
		return nil, false, fmt.Errorf("redis: get profile %s: %w", wallet, err)
	}

	w, ok, err := p.origin.Profile(ctx, wallet)
	if err != nil {
		return nil, false, err
	}

	payload := ""
	if ok {
		data, jsonErr := json.Marshal(w)
		if jsonErr != nil {
			return nil, false, fmt.Errorf("redis: encode profile %s: %w", wallet, jsonErr)
		}
		payload = string(data)
	}
	if setErr := p.rdb.Set(ctx, profileKey(wallet), payload, p.ttl).Err(); setErr != nil {
		return nil, false, fmt.Errorf("redis: set profile %s: %w", wallet, setErr)
	}

	return w, ok, nil
}

var _ Provider = (*RedisProvider)(nil)
