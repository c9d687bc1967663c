package domain

import "time"

// Terminal is whichever of normal exit, memory breach or timeout resolved first for a test run
type Terminal int

const (
	TerminalNormalExit Terminal = iota + 1
	TerminalMemoryBreach
	TerminalTimedOut
)

func (t Terminal) String() string {
	switch t {
	case TerminalNormalExit:
		return "normal_exit"
	case TerminalMemoryBreach:
		return "memory_breach"
	case TerminalTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// RunLimits are the bounds a single test run is held to
type RunLimits struct {
	MemoryLimitMB int
	TimeLimit     time.Duration
}

// MemoryLimitBytes returns the memory ceiling in bytes
func (l RunLimits) MemoryLimitBytes() int64 {
	return int64(l.MemoryLimitMB) * 1024 * 1024
}

// RunOutcome is what the supervisor observed for one test run
type RunOutcome struct {
	Terminal        Terminal
	Stdout          string
	Stderr          string
	ExitCode        int
	Elapsed         time.Duration
	PeakMemoryBytes int64
}
