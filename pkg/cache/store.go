package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache entry not found")

// Store persists opaque artifacts keyed by device address together with the
// time they were captured.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, time.Time, error)
	Write(ctx context.Context, key string, data []byte, capturedAt time.Time) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
