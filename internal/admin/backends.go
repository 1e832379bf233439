// AngelaMos | 2026
// backends.go

package admin

import (
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
)

func DatabaseBackend(db *core.Database) Backend {
	return Backend{
		Name: "database",
		Ping: db.Ping,
		Pool: func() any {
			s := db.Stats()
			return DBPoolStats{
				MaxOpenConnections: s.MaxOpenConnections,
				OpenConnections:    s.OpenConnections,
				InUse:              s.InUse,
				Idle:               s.Idle,
				WaitCount:          s.WaitCount,
				WaitDuration:       s.WaitDuration.String(),
				MaxIdleClosed:      s.MaxIdleClosed,
				MaxIdleTimeClosed:  s.MaxIdleTimeClosed,
				MaxLifetimeClosed:  s.MaxLifetimeClosed,
			}
		},
	}
}

func RedisBackend(r *core.Redis) Backend {
	return Backend{
		Name: "redis",
		Ping: r.Ping,
		Pool: func() any {
			s := r.PoolStats()
			return RedisPoolStats{
				Hits:       s.Hits,
				Misses:     s.Misses,
				Timeouts:   s.Timeouts,
				TotalConns: s.TotalConns,
				IdleConns:  s.IdleConns,
				StaleConns: s.StaleConns,
			}
		},
	}
}
