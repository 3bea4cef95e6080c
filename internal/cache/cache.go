// Package cache memoizes calculation results. A cache miss or failure never fails a
// calculation; callers treat every error as a miss.
package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "amortization:"

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key hashes the JSON form of v. Requests that differ in any field, dates included, get
// different keys.
func Key(kind string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return keyPrefix + kind + ":" + strconv.FormatUint(xxhash.Sum64(b), 16), nil
}

// Scope fingerprints settings that change results without being part of a request, such as the
// holiday calendar. Order does not matter.
func Scope(settings ...string) string {
	sorted := slices.Clone(settings)
	slices.Sort(sorted)
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(sorted, ",")), 16)
}

// Memory is an in-process cache with per-entry expiry.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.c.Set(key, value, gocache.DefaultExpiration)
	return nil
}

// Redis shares cached results between instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop disables caching.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte) error { return nil }
