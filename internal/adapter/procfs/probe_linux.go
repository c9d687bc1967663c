package procfs

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

var _ secondary.MemoryProbe = (*Probe)(nil)

// Probe reads resident memory of processes from /proc
type Probe struct {
	fs procfs.FS
}

func NewProbe() (*Probe, error) {
	fsys, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open procfs: %w", errs.ErrInfrastructure, err)
	}
	return &Probe{fs: fsys}, nil
}

// Alive reports whether pid exists and has not yet exited. An exited but unreaped
// child still has a /proc entry, so zombies are treated as dead.
func (p *Probe) Alive(pid int) bool {
	if err := unix.Kill(pid, 0); err != nil && !errors.Is(err, unix.EPERM) {
		return false
	}
	stat, err := p.stat(pid)
	if err != nil {
		return false
	}
	return !exited(stat.State)
}

func (p *Probe) ResidentBytes(pid int) (int64, error) {
	stat, err := p.stat(pid)
	if err != nil {
		return 0, err
	}
	if exited(stat.State) {
		return 0, errs.ErrProcessGone
	}
	return int64(stat.ResidentMemory()), nil
}

func (p *Probe) stat(pid int) (procfs.ProcStat, error) {
	proc, err := p.fs.Proc(pid)
	if err != nil {
		return procfs.ProcStat{}, classify(pid, err)
	}
	stat, err := proc.Stat()
	if err != nil {
		return procfs.ProcStat{}, classify(pid, err)
	}
	return stat, nil
}

func exited(state string) bool {
	return state == "Z" || state == "X"
}

func classify(pid int, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ESRCH) {
		return errs.ErrProcessGone
	}
	return fmt.Errorf("failed to read /proc/%d: %w", pid, err)
}
