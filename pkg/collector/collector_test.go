package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model_ns "switch-collector/models/network_switch"
	"switch-collector/models/snmp"
	"switch-collector/pkg/cache"
	"switch-collector/pkg/logger"
	"switch-collector/pkg/network_switch"
	"switch-collector/pkg/transport"
	"switch-collector/pkg/transport/transporttest"
)

type recordingDevice struct {
	*transporttest.Device
	conns []snmp.SNMPConnectionConfig
}

func (d *recordingDevice) Get(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) (snmp.Value, error) {
	d.conns = append(d.conns, conn)
	return d.Device.Get(ctx, conn, oid)
}

func newTestCollector(t *testing.T, tr transport.Transport, store cache.Store, now *time.Time) *Collector {
	t.Helper()
	cm := cache.NewManager(store, cache.DefaultTTL)
	cm.Log = logger.NewTestLogger()
	cm.Now = func() time.Time { return *now }

	c := New(DefaultConfig(), tr, cm)
	c.Log = logger.NewTestLogger()
	return c
}

func TestValidateAddress(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    string
		invalid bool
	}{
		"ipv4":            {in: "10.0.0.1", want: "10.0.0.1"},
		"padded":          {in: " 10.0.0.1\n", want: "10.0.0.1"},
		"ipv6":            {in: "2001:DB8::0001", want: "2001:db8::1"},
		"empty":           {in: "", want: DefaultAddress},
		"hostname":        {in: "switch.local", invalid: true},
		"traversal":       {in: "../../etc/passwd", invalid: true},
		"with port":       {in: "10.0.0.1:161", invalid: true},
		"out of range":    {in: "10.0.0.256", invalid: true},
		"ipv6 with zone":  {in: "fe80::1%eth0", invalid: true},
		"shell injection": {in: "10.0.0.1;reboot", invalid: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ValidateAddress(test.in)
			if test.invalid {
				assert.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCollect_LiveThenCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	device := transporttest.NewSwitch(4)
	c := newTestCollector(t, device, cache.NewFileStore(t.TempDir()), &now)

	live, source, err := c.Collect(ctx, "10.0.0.1", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, model_ns.SourceLive, source)
	assert.Len(t, live.Ports, 4)

	gets, walks := device.Calls()

	now = now.Add(time.Second)
	cached, source, err := c.Collect(ctx, "10.0.0.1", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, model_ns.SourceCache, source)
	assert.Equal(t, live, cached)

	gets2, walks2 := device.Calls()
	assert.Equal(t, gets, gets2, "cache hit must not touch the device")
	assert.Equal(t, walks, walks2)
}

func TestCollect_ExpiredEntryIsRefreshed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	device := transporttest.NewSwitch(2)
	c := newTestCollector(t, device, cache.NewFileStore(t.TempDir()), &now)

	_, source, err := c.Collect(ctx, "10.0.0.1", Credentials{})
	require.NoError(t, err)
	require.Equal(t, model_ns.SourceLive, source)

	device.Scalars[snmp.OidSysName] = "core-sw-renamed"
	now = now.Add(cache.DefaultTTL + time.Second)

	ns, source, err := c.Collect(ctx, "10.0.0.1", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, model_ns.SourceLive, source)
	assert.Equal(t, "core-sw-renamed", ns.Info.Name.String())
}

func TestCollect_InvalidAddress(t *testing.T) {
	now := time.Now()
	device := transporttest.NewSwitch(2)
	c := newTestCollector(t, device, cache.NewFileStore(t.TempDir()), &now)

	_, _, err := c.Collect(context.Background(), "not-an-ip", Credentials{})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	gets, walks := device.Calls()
	assert.Zero(t, gets)
	assert.Zero(t, walks)
}

func TestCollect_UnsupportedVersion(t *testing.T) {
	tests := map[string]struct {
		version string
		wantErr bool
	}{
		"v1":      {version: "1"},
		"v2c":     {version: "2c"},
		"default": {version: ""},
		"v3":      {version: "3", wantErr: true},
		"garbage": {version: "v2", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			now := time.Now()
			device := transporttest.NewSwitch(1)
			c := newTestCollector(t, device, cache.NewFileStore(t.TempDir()), &now)

			_, _, err := c.Collect(context.Background(), "10.0.0.1", Credentials{Version: test.version})
			gets, _ := device.Calls()
			if test.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedVersion)
				assert.NotErrorIs(t, err, transport.ErrTransportFault)
				assert.Zero(t, gets)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, gets)
		})
	}
}

func TestCollect_Unreachable(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := cache.NewFileStore(t.TempDir())
	c := newTestCollector(t, transporttest.NewDevice(), store, &now)

	_, _, err := c.Collect(ctx, "10.0.0.7", Credentials{Community: "private"})
	require.Error(t, err)
	assert.ErrorIs(t, err, network_switch.ErrDeviceUnreachable)
	assert.Contains(t, err.Error(), "10.0.0.7")
	assert.NotContains(t, err.Error(), "private")

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys, "failed polls are not cached")
}

func TestCollect_TransportFault(t *testing.T) {
	now := time.Now()
	device := transporttest.NewSwitch(2)
	device.GetErrs[snmp.OidSysDescr] = &transport.FaultError{Target: "10.0.0.1:161 (v2c)", Class: snmp.ClassSystem, Err: errors.New("fork/exec: no such file")}
	c := newTestCollector(t, device, cache.NewFileStore(t.TempDir()), &now)

	_, _, err := c.Collect(context.Background(), "10.0.0.1", Credentials{})
	assert.ErrorIs(t, err, transport.ErrTransportFault)
	assert.NotErrorIs(t, err, network_switch.ErrDeviceUnreachable)
}

func TestCollect_CacheWriteFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	notADir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.WriteFile(notADir, nil, 0o644))
	device := transporttest.NewSwitch(2)
	c := newTestCollector(t, device, cache.NewFileStore(notADir), &now)

	ns, source, err := c.Collect(ctx, "10.0.0.1", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, model_ns.SourceLive, source)
	assert.Len(t, ns.Ports, 2)

	_, source, err = c.Collect(ctx, "10.0.0.1", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, model_ns.SourceLive, source)
}

func TestCollect_Credentials(t *testing.T) {
	now := time.Now()
	device := &recordingDevice{Device: transporttest.NewSwitch(1)}
	c := newTestCollector(t, device, cache.NewFileStore(t.TempDir()), &now)

	_, _, err := c.Collect(context.Background(), "10.0.0.1", Credentials{Community: "private", Port: 1161})
	require.NoError(t, err)
	require.NotEmpty(t, device.conns)

	conn := device.conns[0]
	assert.Equal(t, "10.0.0.1", conn.Target)
	assert.Equal(t, "private", conn.Community)
	assert.Equal(t, 1161, conn.Port)
	assert.Equal(t, snmp.DefaultVersion, conn.Version)
	assert.Equal(t, time.Second, conn.Timeout)
	assert.Equal(t, 1, conn.Retries)
}

func TestDeleteAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := newTestCollector(t, transporttest.NewSwitch(2), cache.NewFileStore(t.TempDir()), &now)

	for _, addr := range []string{"10.0.0.2", "10.0.0.1"} {
		_, _, err := c.Collect(ctx, addr, Credentials{})
		require.NoError(t, err)
	}

	summaries, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "10.0.0.1", summaries[0].Address)
	assert.Equal(t, 2, summaries[0].Ports)

	require.NoError(t, c.Delete(ctx, "10.0.0.1"))
	require.NoError(t, c.Delete(ctx, "10.0.0.1"))
	assert.ErrorIs(t, c.Delete(ctx, "../10.0.0.2"), ErrInvalidAddress)
	assert.ErrorIs(t, c.Delete(ctx, ""), ErrInvalidAddress)

	summaries, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "10.0.0.2", summaries[0].Address)
}
