package execution

import (
	"context"
	"errors"
	"time"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

// Usage is what a memory watch observed
type Usage struct {
	PeakBytes int64
	Breached  bool
}

// MemoryMonitor polls a process' resident memory at a fixed interval
type MemoryMonitor struct {
	probe    secondary.MemoryProbe
	interval time.Duration
	logger   primary.Logger
}

func NewMemoryMonitor(probe secondary.MemoryProbe, interval time.Duration, logger primary.Logger) *MemoryMonitor {
	return &MemoryMonitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
}

// Watch blocks until pid's resident memory exceeds limitBytes, ctx is cancelled, or the
// process goes away. Only the first case reports Breached. A vanished or zombie process
// is never reported as a breach.
func (m *MemoryMonitor) Watch(ctx context.Context, pid int, limitBytes int64) Usage {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var usage Usage
	for {
		if ctx.Err() != nil || !m.probe.Alive(pid) {
			return usage
		}

		rss, err := m.probe.ResidentBytes(pid)
		switch {
		case errors.Is(err, errs.ErrProcessGone):
			return usage
		case err != nil:
			m.logger.Debug("Memory poll failed", "pid", pid, "error", err)
		default:
			if rss > usage.PeakBytes {
				usage.PeakBytes = rss
			}
			if rss > limitBytes && ctx.Err() == nil {
				usage.Breached = true
				return usage
			}
		}

		select {
		case <-ctx.Done():
			return usage
		case <-ticker.C:
		}
	}
}
