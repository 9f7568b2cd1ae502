// Package observability reports process health while the portal runs.
package observability

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Telemetry periodically logs process CPU, memory and goroutine counts.
// It runs under the supervisor like any other worker.
type Telemetry struct {
	log      *slog.Logger
	interval time.Duration
}

func NewTelemetry(log *slog.Logger, interval time.Duration) *Telemetry {
	return &Telemetry{log: log, interval: interval}
}

func (t *Telemetry) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.report(proc)
		}
	}
}

func (t *Telemetry) report(proc *process.Process) {
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		t.log.Warn("memory stats unavailable", "error", err)
		return
	}
	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		t.log.Warn("cpu stats unavailable", "error", err)
		return
	}

	t.log.Info("telemetry",
		"rss_mb", memInfo.RSS/1024/1024,
		"cpu_percent", cpuPercent,
		"goroutines", runtime.NumGoroutine(),
	)
}
