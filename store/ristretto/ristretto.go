// Package ristretto adapts dgraph-io/ristretto to the store.Store interface.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"
)

type Store struct {
	c *rc.Cache
}

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
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
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// unexpected entry shape; drop it
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	return s.c.SetWithTTL(key, value, cost, ttl), nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's own counters for applications that want them.
// Not part of the store.Store contract.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
