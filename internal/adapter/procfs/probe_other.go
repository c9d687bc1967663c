//go:build !linux

package procfs

import (
	"fmt"
	"runtime"

	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

// Probe is unavailable outside Linux
type Probe struct{}

func NewProbe() (*Probe, error) {
	return nil, fmt.Errorf("%w: memory probing is not supported on %s", errs.ErrInfrastructure, runtime.GOOS)
}

func (p *Probe) Alive(pid int) bool {
	return false
}

func (p *Probe) ResidentBytes(pid int) (int64, error) {
	return 0, errs.ErrProcessGone
}
