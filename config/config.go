// Package config builds Manager options from a YAML file.
//
//	name: feed
//	dir: /var/cache/myapp
//	codec: msgpack          # msgpack | cbor | json
//	maxRecordSize: 1048576
//	atomicWrite: true
//	backend:
//	  type: redis           # file | redis | bigcache | ristretto
//	  redis:
//	    addr: localhost:6379
//	    prefix: "app:"
//	    ttl: 24h
//	    generations: true
//	log:
//	  level: info           # off | debug | info | warn | error
//	  format: json          # text | json
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/silkcache"
	c "github.com/unkn0wn-root/silkcache/codec"
	gen "github.com/unkn0wn-root/silkcache/genstore"
	pr "github.com/unkn0wn-root/silkcache/provider"
	"github.com/unkn0wn-root/silkcache/provider/bigcache"
	"github.com/unkn0wn-root/silkcache/provider/file"
	rp "github.com/unkn0wn-root/silkcache/provider/redis"
	"github.com/unkn0wn-root/silkcache/provider/ristretto"
)

const (
	CodecMsgpack = "msgpack"
	CodecCBOR    = "cbor"
	CodecJSON    = "json"

	BackendFile      = "file"
	BackendRedis     = "redis"
	BackendBigCache  = "bigcache"
	BackendRistretto = "ristretto"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name          string  `yaml:"name"`
	Dir           string  `yaml:"dir"`
	Codec         string  `yaml:"codec"`
	MaxRecordSize int     `yaml:"maxRecordSize"`
	AtomicWrite   bool    `yaml:"atomicWrite"`
	Backend       Backend `yaml:"backend"`
	Log           Log     `yaml:"log"`
}

type Backend struct {
	Type      string     `yaml:"type"`
	Redis     *Redis     `yaml:"redis"`
	BigCache  *BigCache  `yaml:"bigcache"`
	Ristretto *Ristretto `yaml:"ristretto"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
	// Generations keeps commit generations in redis too, so Stale works
	// across hosts.
	Generations   bool          `yaml:"generations"`
	GenNamespace  string        `yaml:"genNamespace"`
	GenerationTTL time.Duration `yaml:"generationTtl"`
}

type BigCache struct {
	LifeWindow   time.Duration `yaml:"lifeWindow"`
	CleanWindow  time.Duration `yaml:"cleanWindow"`
	MaxEntrySize int           `yaml:"maxEntrySize"`
	HardMaxMB    int           `yaml:"hardMaxMB"`
}

type Ristretto struct {
	NumCounters int64         `yaml:"numCounters"`
	MaxCost     int64         `yaml:"maxCost"`
	BufferItems int64         `yaml:"bufferItems"`
	TTL         time.Duration `yaml:"ttl"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document, fills defaults and validates the result.
// Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Dir == "" {
		cfg.Dir = silkcache.DefaultDir()
	}
	cfg.Codec = strings.ToLower(cfg.Codec)
	if cfg.Codec == "" {
		cfg.Codec = CodecMsgpack
	}
	cfg.Backend.Type = strings.ToLower(cfg.Backend.Type)
	if cfg.Backend.Type == "" {
		cfg.Backend.Type = BackendFile
	}
	if cfg.Backend.Type == BackendRistretto && cfg.Backend.Ristretto == nil {
		cfg.Backend.Ristretto = &Ristretto{}
	}
	if r := cfg.Backend.Ristretto; r != nil {
		if r.NumCounters == 0 {
			r.NumCounters = 10_000
		}
		if r.MaxCost == 0 {
			r.MaxCost = 64 << 20
		}
		if r.BufferItems == 0 {
			r.BufferItems = 64
		}
	}
	cfg.Log.applyDefaults()
}

func (cfg *Config) Validate() error {
	switch cfg.Codec {
	case CodecMsgpack, CodecCBOR, CodecJSON:
	default:
		return fmt.Errorf("%w: unknown codec %q", ErrInvalid, cfg.Codec)
	}
	if cfg.MaxRecordSize < 0 {
		return fmt.Errorf("%w: maxRecordSize must be >= 0", ErrInvalid)
	}
	switch cfg.Backend.Type {
	case BackendFile, BackendBigCache:
	case BackendRedis:
		if cfg.Backend.Redis == nil || cfg.Backend.Redis.Addr == "" {
			return fmt.Errorf("%w: redis backend needs backend.redis.addr", ErrInvalid)
		}
	case BackendRistretto:
		if cfg.Backend.Ristretto == nil {
			return fmt.Errorf("%w: ristretto backend needs backend.ristretto", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, cfg.Backend.Type)
	}
	return cfg.Log.Validate()
}

// Stores is an opened backend: the provider plus, for redis with
// generations, a shared generation store.
type Stores struct {
	Provider pr.Provider
	GenStore gen.GenStore // nil => the in-process default

	client goredis.UniversalClient
}

// Close releases the provider and any redis client opened for it.
func (s *Stores) Close(ctx context.Context) error {
	err := s.Provider.Close(ctx)
	if s.client != nil {
		err = errors.Join(err, s.client.Close())
	}
	return err
}

// Open builds the configured provider.
func (cfg *Config) Open(ctx context.Context) (*Stores, error) {
	switch cfg.Backend.Type {
	case BackendRedis:
		rc := cfg.Backend.Redis
		client := goredis.NewClient(&goredis.Options{
			Addr:     rc.Addr,
			Username: rc.Username,
			Password: rc.Password,
			DB:       rc.DB,
		})
		p, err := rp.New(rp.Config{Client: client, Prefix: rc.Prefix, TTL: rc.TTL})
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		s := &Stores{Provider: p, client: client}
		if rc.Generations {
			gs, err := gen.NewRedis(gen.RedisConfig{
				Client:    client,
				Namespace: rc.GenNamespace,
				TTL:       rc.GenerationTTL,
			})
			if err != nil {
				_ = client.Close()
				return nil, err
			}
			s.GenStore = gs
		}
		return s, nil
	case BackendBigCache:
		var bcfg BigCache
		if cfg.Backend.BigCache != nil {
			bcfg = *cfg.Backend.BigCache
		}
		p, err := bigcache.New(ctx, bigcache.Config{
			LifeWindow:         bcfg.LifeWindow,
			CleanWindow:        bcfg.CleanWindow,
			MaxEntrySize:       bcfg.MaxEntrySize,
			HardMaxCacheSizeMB: bcfg.HardMaxMB,
		})
		if err != nil {
			return nil, fmt.Errorf("config: bigcache: %w", err)
		}
		return &Stores{Provider: p}, nil
	case BackendRistretto:
		r := cfg.Backend.Ristretto
		p, err := ristretto.New(ristretto.Config{
			NumCounters: r.NumCounters,
			MaxCost:     r.MaxCost,
			BufferItems: r.BufferItems,
			TTL:         r.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("config: ristretto: %w", err)
		}
		return &Stores{Provider: p}, nil
	default:
		p, err := file.New(file.Config{Dir: cfg.Dir, Atomic: cfg.AtomicWrite})
		if err != nil {
			return nil, err
		}
		return &Stores{Provider: p}, nil
	}
}

// Codec returns the configured item codec.
func Codec[T any](cfg *Config) (c.Codec[T], error) {
	switch cfg.Codec {
	case CodecMsgpack:
		return c.Msgpack[T]{}, nil
	case CodecJSON:
		return c.JSON[T]{}, nil
	case CodecCBOR:
		return c.NewCBOR[T](true)
	default:
		return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalid, cfg.Codec)
	}
}

// Options assembles Manager options from cfg and an opened backend. The
// caller keeps ownership of s and closes it after the manager.
func Options[T any](cfg *Config, s *Stores) (silkcache.Options[T], error) {
	codec, err := Codec[T](cfg)
	if err != nil {
		return silkcache.Options[T]{}, err
	}
	logger, err := cfg.Log.Logger()
	if err != nil {
		return silkcache.Options[T]{}, err
	}
	opts := silkcache.Options[T]{
		Name:          cfg.Name,
		Dir:           cfg.Dir,
		Codec:         codec,
		MaxRecordSize: cfg.MaxRecordSize,
		AtomicWrite:   cfg.AtomicWrite,
		Logger:        logger,
	}
	if s != nil {
		opts.Provider = s.Provider
		opts.GenStore = s.GenStore
	}
	return opts, nil
}
