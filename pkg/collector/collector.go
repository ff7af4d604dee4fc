// Package collector is the entry point of the engine: it answers a request
// for a device snapshot from the cache when possible and polls the device
// otherwise.
package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"

	model_ns "switch-collector/models/network_switch"
	"switch-collector/models/snmp"
	"switch-collector/pkg/cache"
	"switch-collector/pkg/logger"
	"switch-collector/pkg/network_switch"
	"switch-collector/pkg/transport"
)

var (
	ErrInvalidAddress     = errors.New("invalid device address")
	ErrUnsupportedVersion = errors.New("unsupported snmp version")
)

// DefaultAddress is polled when a request names no device.
const DefaultAddress = "127.0.0.1"

// Config holds the defaults applied to requests that leave a credential
// field empty, plus the per-call timing of every SNMP request.
type Config struct {
	Community string
	Version   string
	Port      int
	Timeout   time.Duration
	Retries   int
}

func DefaultConfig() Config {
	return Config{
		Community: "public",
		Version:   snmp.DefaultVersion,
		Port:      snmp.DefaultPort,
		Timeout:   time.Second,
		Retries:   1,
	}
}

// Credentials are the per-request SNMP parameters. Zero fields fall back to
// the collector's Config.
type Credentials struct {
	Community string
	Version   string
	Port      int
}

type Collector struct {
	Config    Config
	Transport transport.Transport
	Cache     *cache.Manager
	Log       zerolog.Logger
}

func New(cfg Config, t transport.Transport, cm *cache.Manager) *Collector {
	return &Collector{
		Config:    cfg,
		Transport: t,
		Cache:     cm,
		Log:       logger.WithComponent("collector"),
	}
}

// ValidateAddress returns the canonical form of an IPv4 or IPv6 literal.
// An empty address means DefaultAddress.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return DefaultAddress, nil
	}
	ip := net.ParseIP(address)
	if ip == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return ip.String(), nil
}

// Collect returns the snapshot of the device at address together with where
// it came from. A live snapshot is cached before it is returned; failing to
// cache it is logged and does not fail the call.
func (c *Collector) Collect(ctx context.Context, address string, creds Credentials) (model_ns.NetworkSwitch, model_ns.Source, error) {
	addr, err := ValidateAddress(address)
	if err != nil {
		return model_ns.NetworkSwitch{}, "", err
	}

	conn := c.connection(addr, creds)
	if conn.Version != "1" && conn.Version != "2c" {
		return model_ns.NetworkSwitch{}, "", fmt.Errorf("%w: %q (use 1 or 2c)", ErrUnsupportedVersion, conn.Version)
	}

	if entry, ok := c.Cache.Get(ctx, addr); ok {
		c.Log.Debug().Str("ip", addr).Time("captured_at", entry.CapturedAt).Msg("serving cached snapshot")
		return entry.Snapshot, model_ns.SourceCache, nil
	}

	nsc := network_switch.NewNSCollector(c.Transport, conn)
	if err := nsc.Collect(ctx); err != nil {
		return model_ns.NetworkSwitch{}, "", err
	}
	ns := *nsc.NetworkSwitch

	if err := c.Cache.Put(ctx, addr, ns); err != nil {
		c.Log.Warn().Err(err).Str("ip", addr).Msg("failed to cache snapshot")
	}

	c.Log.Info().Str("ip", addr).Int("ports", len(ns.Ports)).Int("up", ns.PortsUp()).Msg("device polled")
	return ns, model_ns.SourceLive, nil
}

// Delete drops the cached snapshot of address, if any.
func (c *Collector) Delete(ctx context.Context, address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	addr, err := ValidateAddress(address)
	if err != nil {
		return err
	}
	return c.Cache.Delete(ctx, addr)
}

func (c *Collector) List(ctx context.Context) ([]model_ns.Summary, error) {
	return c.Cache.List(ctx)
}

func (c *Collector) connection(addr string, creds Credentials) snmp.SNMPConnectionConfig {
	conn := snmp.SNMPConnectionConfig{
		Target:    addr,
		Port:      c.Config.Port,
		Community: c.Config.Community,
		Version:   c.Config.Version,
		Timeout:   c.Config.Timeout,
		Retries:   c.Config.Retries,
	}
	if creds.Community != "" {
		conn.Community = creds.Community
	}
	if creds.Version != "" {
		conn.Version = creds.Version
	}
	if creds.Port != 0 {
		conn.Port = creds.Port
	}
	return conn
}
