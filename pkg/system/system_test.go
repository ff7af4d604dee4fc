package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model_system "switch-collector/models/system"
)

func fakeCollector(dir string) *SystemCollector {
	sc := NewSystemCollector(&model_system.SystemInfo{SlaveID: "7"}, dir)
	sc.CPUPercent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{12.6}, nil
	}
	sc.VirtualMem = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 2048 * 1024 * 1024, Used: 512 * 1024 * 1024, UsedPercent: 25.2}, nil
	}
	sc.DiskUsage = func(_ context.Context, path string) (*disk.UsageStat, error) {
		return &disk.UsageStat{Path: path, Total: 1000, Used: 250, UsedPercent: 25}, nil
	}
	sc.NetIOCounter = func(context.Context, bool) ([]net.IOCountersStat, error) {
		return []net.IOCountersStat{
			{Name: "eth0", BytesRecv: 100, BytesSent: 200},
			{Name: "lo", BytesRecv: 1, BytesSent: 1},
			{Name: "veth1a2b", BytesRecv: 1, BytesSent: 1},
			{Name: "docker0", BytesRecv: 1, BytesSent: 1},
		}, nil
	}
	return sc
}

func params(info *model_system.SystemInfo) map[string]interface{} {
	out := map[string]interface{}{}
	for _, p := range info.Parames {
		out[p.Key] = p.Value
	}
	return out
}

func TestCollect(t *testing.T) {
	sc := fakeCollector("/var/cache/switches")

	require.NoError(t, sc.Collect(context.Background()))
	assert.False(t, sc.SystemInfo.Time.IsZero())

	got := params(sc.SystemInfo)
	require.Len(t, got, 4)

	assert.Equal(t, map[string]interface{}{"percentage": float32(13)}, got["cpu"])
	assert.Equal(t, map[string]interface{}{
		"total":      float32(2048),
		"used":       float32(512),
		"percentage": float32(25),
	}, got["ram"])
	assert.Equal(t, "/var/cache/switches", got["disk"].(map[string]interface{})["path"])
	assert.Equal(t, map[string]map[string]interface{}{
		"eth0": {"in": uint64(100), "out": uint64(200)},
	}, got["network"])
}

func TestCollect_ReadingFailure(t *testing.T) {
	sc := fakeCollector("")
	sc.VirtualMem = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no /proc")
	}

	require.NoError(t, sc.Collect(context.Background()))

	got := params(sc.SystemInfo)
	assert.NotContains(t, got, "ram")
	assert.NotContains(t, got, "disk")
	assert.Contains(t, got, "cpu")
	assert.Contains(t, got, "network")
}
