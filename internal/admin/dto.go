// AngelaMos | 2026
// dto.go

package admin

import (
	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
)

type StatsResponse struct {
	ClientCount   int64                 `json:"clientCount"`
	SoftwareCount int64                 `json:"softwareCount"`
	OrderCount    int64                 `json:"orderCount"`
	Revenue       string                `json:"revenue"`
	RecentOrders  []order.OrderResponse `json:"recentOrders"`
}

type SystemStatsResponse struct {
	Backends []BackendStatus `json:"backends"`
	Runtime  RuntimeStats    `json:"runtime"`
}

type BackendStatus struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMs int64  `json:"latencyMs"`
	Pool      any    `json:"pool,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxIdleClosed      int64  `json:"maxIdleClosed"`
	MaxIdleTimeClosed  int64  `json:"maxIdleTimeClosed"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
