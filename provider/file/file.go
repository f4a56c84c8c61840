// Package file stores each cache as a regular file in one directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	pr "github.com/unkn0wn-root/silkcache/provider"
)

var ErrBadKey = errors.New("file provider: key must be a plain file name")

type Config struct {
	// Dir holds the cache files. It is created (with parents) if absent.
	Dir string
	// Perm is the mode for new cache files; 0 => 0644.
	Perm fs.FileMode
	// Atomic writes to a temp file in Dir and renames it over the cache file,
	// so a crash mid-write leaves the previous file intact. When false the
	// cache file is truncated and rewritten in place.
	Atomic bool
}

type Provider struct {
	dir    string
	perm   fs.FileMode
	atomic bool
}

var (
	_ pr.Provider = (*Provider)(nil)
	_ pr.Locator  = (*Provider)(nil)
)

func New(cfg Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("file provider: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("file provider: create dir: %w", err)
	}
	perm := cfg.Perm
	if perm == 0 {
		perm = 0o644
	}
	return &Provider{dir: cfg.Dir, perm: perm, atomic: cfg.Atomic}, nil
}

// Dir returns the directory holding the cache files.
func (p *Provider) Dir() string { return p.dir }

// Locate returns the full path of the cache file for key.
func (p *Provider) Locate(key string) string { return filepath.Join(p.dir, key) }

func (p *Provider) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return filepath.Join(p.dir, key), nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	path, err := p.path(key)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}
	if !p.atomic {
		return os.WriteFile(path, value, p.perm)
	}

	tmp, err := os.CreateTemp(p.dir, "."+key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	// remove the temp file on any failure below; after a successful rename it no longer exists
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, p.perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (p *Provider) Del(_ context.Context, key string) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (p *Provider) Close(context.Context) error { return nil }
