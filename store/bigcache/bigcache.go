// Package bigcache adapts allegro/bigcache to the store.Store interface.
//
// BigCache has no per-entry TTL; entries live for the configured LifeWindow.
// gridcache stamps an authoritative expiry into every entry it writes, so
// shorter TTLs are still honored on read.
package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"
)

type Store struct {
	c *bc.BigCache
}

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ int64, _ time.Duration) (bool, error) {
	return true, s.c.Set(key, value)
}

func (s *Store) Del(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if err == bc.ErrEntryNotFound {
		return nil
	}
	return err
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
