//go:build adapters_redis

// Package redis provides a cache.Store backed by Redis, for sharing the
// response cache across processes.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/lenagent/go-lenagent/cache"
	rds "github.com/redis/go-redis/v9"
)

type Store struct {
	client *rds.Client
	ttl    time.Duration
	prefix string
}

// NewStore creates a redis-backed cache store. A zero ttl means entries never
// expire, matching the in-memory store's lifetime semantics.
func NewStore(client *rds.Client, ttl time.Duration, prefix string) *Store {
	return &Store{client: client, ttl: ttl, prefix: prefix}
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *Store) pattern() string {
	if s.prefix == "" {
		return "*"
	}
	return s.prefix + ":*"
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

func (s *Store) Len(ctx context.Context) (int, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var cursor uint64
	keys := []string{}
	for {
		ks, cur, err := s.client.Scan(ctx, cursor, s.pattern(), 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, ks...)
		if cur == 0 {
			break
		}
		cursor = cur
	}
	return keys, nil
}

func (s *Store) Clear(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

var _ cache.Store = (*Store)(nil)
