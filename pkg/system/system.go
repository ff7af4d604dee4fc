package system

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	model_system "switch-collector/models/system"
	"switch-collector/pkg/logger"
	"switch-collector/util"
)

const CPUInterval = time.Second

var skippedNics = []string{"lo", "veth", "br-", "docker"}

// SystemCollector reports the health of the host running the collector.
// The reader fields default to gopsutil and can be replaced in tests.
type SystemCollector struct {
	SystemInfo *model_system.SystemInfo
	CacheDir   string

	CPUPercent   func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	VirtualMem   func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	DiskUsage    func(ctx context.Context, path string) (*disk.UsageStat, error)
	NetIOCounter func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)
}

func NewSystemCollector(s *model_system.SystemInfo, cacheDir string) *SystemCollector {
	logger.Printf("sys %s starting", s.SlaveID)
	return &SystemCollector{
		SystemInfo:   s,
		CacheDir:     cacheDir,
		CPUPercent:   cpu.PercentWithContext,
		VirtualMem:   mem.VirtualMemoryWithContext,
		DiskUsage:    disk.UsageWithContext,
		NetIOCounter: net.IOCountersWithContext,
	}
}

// Collect appends one Parame per reading. A failing reading is logged and left
// out of the report.
func (sc *SystemCollector) Collect(ctx context.Context) error {
	logger.LogIfErr(sc.collectCPU(ctx))
	logger.LogIfErr(sc.collectRam(ctx))
	logger.LogIfErr(sc.collectDisk(ctx))
	logger.LogIfErr(sc.collectNet(ctx))

	sc.SystemInfo.Time = time.Now()
	return ctx.Err()
}

func (sc *SystemCollector) collectCPU(ctx context.Context) error {
	percents, err := sc.CPUPercent(ctx, CPUInterval, false)
	if err != nil {
		return fmt.Errorf("failed to get cpu usage: %w", err)
	}
	if len(percents) == 0 {
		return nil
	}
	sc.add("cpu", map[string]interface{}{
		"percentage": float32(util.RoundFloat(percents[0], 0)),
	})
	return nil
}

func (sc *SystemCollector) collectRam(ctx context.Context) error {
	vm, err := sc.VirtualMem(ctx)
	if err != nil {
		return fmt.Errorf("failed to get virtual memory info: %w", err)
	}
	sc.add("ram", map[string]interface{}{
		"total":      float32(vm.Total / 1024 / 1024),
		"used":       float32(vm.Used / 1024 / 1024),
		"percentage": float32(util.RoundFloat(vm.UsedPercent, 0)),
	})
	return nil
}

// collectDisk reports the filesystem holding the snapshot cache.
func (sc *SystemCollector) collectDisk(ctx context.Context) error {
	if sc.CacheDir == "" {
		return nil
	}
	usage, err := sc.DiskUsage(ctx, sc.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to get disk info for %s: %w", sc.CacheDir, err)
	}
	sc.add("disk", map[string]interface{}{
		"path":       sc.CacheDir,
		"total":      usage.Total,
		"used":       usage.Used,
		"percentage": float32(util.RoundFloat(usage.UsedPercent, 1)),
	})
	return nil
}

func (sc *SystemCollector) collectNet(ctx context.Context) error {
	counters, err := sc.NetIOCounter(ctx, true)
	if err != nil {
		return fmt.Errorf("fail to get network data: %w", err)
	}

	network := map[string]map[string]interface{}{}
	for _, c := range counters {
		if skipNic(c.Name) {
			continue
		}
		network[c.Name] = map[string]interface{}{
			"in":  c.BytesRecv,
			"out": c.BytesSent,
		}
	}
	sc.add("network", network)
	return nil
}

func (sc *SystemCollector) add(key string, value interface{}) {
	sc.SystemInfo.Parames = append(sc.SystemInfo.Parames, model_system.Parame{Key: key, Value: value})
}

func skipNic(name string) bool {
	for _, prefix := range skippedNics {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
