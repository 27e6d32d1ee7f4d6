// metrics.go - Metrics collection for the StudentKeep gateway
package server

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// ServiceMetrics holds granular health metrics for the gateway process.
type ServiceMetrics struct {
	UptimeSeconds  int64   `json:"uptime_seconds"`
	AssetCount     int     `json:"asset_count"`
	CPULoadPercent float64 `json:"cpu_load_percent"`
	MemoryMB       float64 `json:"memory_mb"`
	StoreReachable bool    `json:"store_reachable"`
}

// GetServiceMetrics returns current health metrics.
func (s *Server) GetServiceMetrics() ServiceMetrics {
	uptime := int64(time.Since(s.startTime).Seconds())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryMB := float64(m.Alloc) / (1024 * 1024)

	cpuPercents, err := cpu.Percent(0, false)
	cpuLoad := 0.0
	if err == nil && len(cpuPercents) > 0 {
		cpuLoad = cpuPercents[0]
	}

	assetCount := 0
	reachable := false
	if s.store != nil {
		if iter, err := s.store.RangeScan("", ""); err == nil {
			reachable = true
			for iter.Next() {
				assetCount++
			}
			if iter.Error() != nil {
				reachable = false
			}
			iter.Release()
		}
	}

	return ServiceMetrics{
		UptimeSeconds:  uptime,
		AssetCount:     assetCount,
		CPULoadPercent: cpuLoad,
		MemoryMB:       memoryMB,
		StoreReachable: reachable,
	}
}
