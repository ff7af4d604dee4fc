// Package cache keeps the latest snapshot of each device for a limited time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	model_ns "switch-collector/models/network_switch"
	"switch-collector/pkg/logger"
)

const DefaultTTL = 300 * time.Second

type Entry struct {
	Snapshot   model_ns.NetworkSwitch
	CapturedAt time.Time
}

type Manager struct {
	Store Store
	TTL   time.Duration
	Now   func() time.Time
	Log   zerolog.Logger
}

func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		Store: store,
		TTL:   ttl,
		Now:   time.Now,
		Log:   logger.WithComponent("cache"),
	}
}

// Get returns the entry for key if one exists and is no older than TTL.
// Storage and decoding errors are logged and reported as a miss.
func (m *Manager) Get(ctx context.Context, key string) (*Entry, bool) {
	data, capturedAt, err := m.Store.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		m.Log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}

	if m.Now().Sub(capturedAt) > m.TTL {
		m.Log.Debug().Str("key", key).Time("captured_at", capturedAt).Msg("cache entry expired")
		return nil, false
	}

	var ns model_ns.NetworkSwitch
	if err := json.Unmarshal(data, &ns); err != nil {
		m.Log.Warn().Err(err).Str("key", key).Msg("cache entry unreadable")
		return nil, false
	}

	return &Entry{Snapshot: ns, CapturedAt: capturedAt}, true
}

// Put stores ns under key, replacing any previous entry.
func (m *Manager) Put(ctx context.Context, key string, ns model_ns.NetworkSwitch) error {
	data, err := json.MarshalIndent(ns, "", "    ")
	if err != nil {
		return err
	}
	return m.Store.Write(ctx, key, data, m.Now())
}

func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.Store.Remove(ctx, key)
}

// List summarises every stored entry, expired ones included.
func (m *Manager) List(ctx context.Context) ([]model_ns.Summary, error) {
	keys, err := m.Store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model_ns.Summary, 0, len(keys))
	for _, key := range keys {
		data, capturedAt, err := m.Store.Read(ctx, key)
		if err != nil {
			m.Log.Warn().Err(err).Str("key", key).Msg("skipping cache entry")
			continue
		}
		var ns model_ns.NetworkSwitch
		if err := json.Unmarshal(data, &ns); err != nil {
			m.Log.Warn().Err(err).Str("key", key).Msg("skipping unreadable cache entry")
			continue
		}
		summaries = append(summaries, model_ns.Summarize(key, ns, capturedAt))
	}
	return summaries, nil
}
