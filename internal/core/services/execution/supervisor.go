package execution

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

const (
	envMemoryLimit = "MEMORY_LIMIT_MB"
	envTimeLimit   = "TIME_LIMIT_MS"
)

// TestRunner runs a compiled executable once against one input
type TestRunner interface {
	Run(ctx context.Context, executablePath, input string, limits domain.RunLimits) (domain.RunOutcome, error)
}

var _ TestRunner = (*Supervisor)(nil)

// Supervisor spawns one test run and races its exit against the memory watcher and a timer
type Supervisor struct {
	monitor       *MemoryMonitor
	outputLimit   int
	ioGracePeriod time.Duration
	logger        primary.Logger
}

func NewSupervisor(monitor *MemoryMonitor, outputLimit int, ioGracePeriod time.Duration, logger primary.Logger) *Supervisor {
	return &Supervisor{
		monitor:       monitor,
		outputLimit:   outputLimit,
		ioGracePeriod: ioGracePeriod,
		logger:        logger,
	}
}

// Run executes the binary with input on stdin. Exceeding a limit is reported through
// RunOutcome.Terminal; an error means the run could not be performed or ctx was cancelled.
func (s *Supervisor) Run(ctx context.Context, executablePath, input string, limits domain.RunLimits) (domain.RunOutcome, error) {
	cmd := exec.Command(executablePath)
	cmd.Dir = filepath.Dir(executablePath)
	cmd.Env = append(os.Environ(),
		envMemoryLimit+"="+strconv.Itoa(limits.MemoryLimitMB),
		envTimeLimit+"="+strconv.FormatInt(limits.TimeLimit.Milliseconds(), 10),
	)
	cmd.Stdin = strings.NewReader(input + "\n")
	stdout := newCappedBuffer(s.outputLimit)
	stderr := newCappedBuffer(s.outputLimit)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// bounds output collection once the child is gone, even if a stray descendant holds the pipes
	cmd.WaitDelay = s.ioGracePeriod
	prepareCommand(cmd)

	if err := cmd.Start(); err != nil {
		return domain.RunOutcome{}, fmt.Errorf("%w: failed to start %s: %w", errs.ErrInfrastructure, executablePath, err)
	}
	startedAt := time.Now()
	pid := cmd.Process.Pid

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	var (
		usage    Usage
		watchers sync.WaitGroup
	)
	breached := make(chan struct{})
	watchers.Add(1)
	go func() {
		defer watchers.Done()
		usage = s.monitor.Watch(watchCtx, pid, limits.MemoryLimitBytes())
		if usage.Breached {
			close(breached)
		}
	}()

	timer := time.NewTimer(limits.TimeLimit)
	defer timer.Stop()

	var (
		terminal domain.Terminal
		waitErr  error
		reaped   bool
		aborted  bool
	)
	select {
	case waitErr = <-exited:
		reaped = true
		terminal = domain.TerminalNormalExit
	case <-breached:
		terminal = domain.TerminalMemoryBreach
	case <-timer.C:
		terminal = domain.TerminalTimedOut
	case <-ctx.Done():
		aborted = true
	}
	elapsed := time.Since(startedAt)

	// Always signal the group: on the kill paths this stops the child, on a clean exit it
	// reaps anything the child left running in the background.
	if err := killProcessGroup(cmd); err != nil {
		s.logger.Warn("Failed to kill process group", "pid", pid, "error", err)
	}
	if !reaped {
		waitErr = <-exited
	}
	cancelWatch()
	watchers.Wait()

	if aborted {
		return domain.RunOutcome{}, fmt.Errorf("test run aborted: %w", ctx.Err())
	}

	// Only the monitor's samples count: the child's rusage maxrss inherits the
	// parent's high-water mark at fork.
	peak := usage.PeakBytes

	if terminal == domain.TerminalNormalExit {
		terminal = resolveExit(elapsed, usage.Breached, limits)
	}

	outcome := domain.RunOutcome{
		Terminal:        terminal,
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		ExitCode:        exitCode(cmd.ProcessState),
		Elapsed:         elapsed,
		PeakMemoryBytes: peak,
	}

	s.logger.Debug("Test run finished",
		"pid", pid,
		"terminal", terminal.String(),
		"exitCode", outcome.ExitCode,
		"elapsedMs", elapsed.Milliseconds(),
		"peakMemoryBytes", peak,
		"stdoutTruncated", stdout.Truncated(),
		"waitError", waitErr)

	return outcome, nil
}

// resolveExit applies the tie-break for a run whose exit won the race: a limit overrun
// observed at the same time is authoritative over the exit.
func resolveExit(elapsed time.Duration, monitorBreached bool, limits domain.RunLimits) domain.Terminal {
	switch {
	case monitorBreached:
		return domain.TerminalMemoryBreach
	case elapsed >= limits.TimeLimit:
		return domain.TerminalTimedOut
	default:
		return domain.TerminalNormalExit
	}
}

func exitCode(state *os.ProcessState) int {
	if state == nil {
		return -1
	}
	return state.ExitCode()
}
