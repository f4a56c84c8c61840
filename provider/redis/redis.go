package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/silkcache/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Redis keeps each cache blob in one redis string. Useful when several hosts
// share one logical cache; last writer still wins.
type Redis struct {
	rdb         goredis.UniversalClient
	prefix      string
	ttl         time.Duration
	closeClient bool
}

var (
	_ pr.Provider = (*Redis)(nil)
	_ pr.Locator  = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	Prefix      string        // prepended to every cache key; "" => "silk:"
	TTL         time.Duration // expiry for stored blobs; <= 0 => no expiry
	CloseClient bool          // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "silk:"
	}
	return &Redis{rdb: cfg.Client, prefix: prefix, ttl: cfg.TTL, closeClient: cfg.CloseClient}, nil
}

// Locate returns the redis key used for a cache file.
func (p *Redis) Locate(key string) string { return p.prefix + key }

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, p.Locate(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte) error {
	ttl := p.ttl
	if ttl <= 0 {
		ttl = 0 // no expiry
	}
	return p.rdb.Set(ctx, p.Locate(key), value, ttl).Err()
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, p.Locate(key)).Err()
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
