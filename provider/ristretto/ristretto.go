package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/silkcache/provider"
)

// ErrRejected is returned when ristretto drops a write (admission policy or
// contention). The manager surfaces it as a commit failure.
var ErrRejected = errors.New("ristretto: write rejected")

type Provider struct {
	c   *rc.Cache
	ttl time.Duration
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // in bytes; each blob costs len(value)
	BufferItems int64
	TTL         time.Duration // 0 => no expiry
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c, ttl: cfg.TTL}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set stores a private copy of value and waits for the write to be applied, so
// a Get right after a commit observes it.
func (p *Provider) Set(_ context.Context, key string, value []byte) error {
	b := append([]byte(nil), value...)
	if !p.c.SetWithTTL(key, b, int64(len(b)), p.ttl) {
		return ErrRejected
	}
	p.c.Wait()
	return nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto's counters when Config.Metrics is set.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
