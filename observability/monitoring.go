// Package observability aggregates process and engine counters for the
// stats endpoint. Counters are atomics updated on the hot path; the
// expensive process probes run only when a snapshot is requested.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot served to operators.
type Stats struct {
	UptimeSeconds   int64   `json:"uptime_seconds"`
	Connections     int64   `json:"connections"`
	EventsIn        uint64  `json:"events_in"`
	MessagesStored  uint64  `json:"messages_stored"`
	BroadcastsOut   uint64  `json:"broadcasts_out"`
	Goroutines      int     `json:"goroutines"`
	AllocMemMb      uint64  `json:"alloc_mem_mb"`
	NumGC           uint32  `json:"num_gc"`
	ProcessCPUPct   float64 `json:"process_cpu_pct"`
	ProcessRSSMb    uint64  `json:"process_rss_mb"`
}

type Monitor struct {
	log     *slog.Logger
	started time.Time
	proc    *process.Process

	connections    atomic.Int64
	eventsIn       atomic.Uint64
	messagesStored atomic.Uint64
	broadcasts     atomic.Uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	m := &Monitor{log: log, started: time.Now()}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("process metrics unavailable", "error", err)
	} else {
		m.proc = proc
	}
	return m
}

func (m *Monitor) ConnOpened() { m.connections.Add(1) }
func (m *Monitor) ConnClosed() { m.connections.Add(-1) }

func (m *Monitor) AddEventIn() { m.eventsIn.Add(1) }

func (m *Monitor) AddStoredMsg() { m.messagesStored.Add(1) }

func (m *Monitor) AddBroadcast() { m.broadcasts.Add(1) }

// Snapshot gathers counters plus runtime and process figures.
func (m *Monitor) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := Stats{
		UptimeSeconds:  int64(time.Since(m.started).Seconds()),
		Connections:    m.connections.Load(),
		EventsIn:       m.eventsIn.Load(),
		MessagesStored: m.messagesStored.Load(),
		BroadcastsOut:  m.broadcasts.Load(),
		Goroutines:     runtime.NumGoroutine(),
		AllocMemMb:     mem.Alloc / 1024 / 1024,
		NumGC:          mem.NumGC,
	}

	if m.proc != nil {
		if pct, err := m.proc.CPUPercent(); err == nil {
			stats.ProcessCPUPct = pct
		}
		if info, err := m.proc.MemoryInfo(); err == nil {
			stats.ProcessRSSMb = info.RSS / 1024 / 1024
		}
	}
	return stats
}
