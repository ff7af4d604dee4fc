package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	fieldData       = "data"
	fieldCapturedAt = "captured_at"
)

// RedisClient is the subset of *redis.Client the store uses.
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

// RedisStore keeps each artifact in a hash under Prefix+key. Both fields are
// written by one HSET so readers never see a half-written entry.
type RedisStore struct {
	Client RedisClient
	Prefix string
}

func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	return &RedisStore{Client: client, Prefix: prefix}
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, time.Time, error) {
	fields, err := s.Client.HGetAll(ctx, s.Prefix+key).Result()
	if err != nil {
		return nil, time.Time{}, err
	}
	data, ok := fields[fieldData]
	if !ok {
		return nil, time.Time{}, ErrNotFound
	}
	nanos, err := strconv.ParseInt(fields[fieldCapturedAt], 10, 64)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("entry %s: bad %s: %w", key, fieldCapturedAt, err)
	}
	return []byte(data), time.Unix(0, nanos), nil
}

func (s *RedisStore) Write(ctx context.Context, key string, data []byte, capturedAt time.Time) error {
	return s.Client.HSet(ctx, s.Prefix+key,
		fieldData, string(data),
		fieldCapturedAt, strconv.FormatInt(capturedAt.UnixNano(), 10),
	).Err()
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.Prefix+key).Err()
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	names, err := s.Client.Keys(ctx, s.Prefix+"*").Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, strings.TrimPrefix(name, s.Prefix))
	}
	sort.Strings(keys)
	return keys, nil
}
