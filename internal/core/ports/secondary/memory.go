package secondary

type MemoryProbe interface {
	// Alive reports whether pid still refers to a running (non-zombie) process
	Alive(pid int) bool

	// ResidentBytes returns the resident set size of pid, or errs.ErrProcessGone
	ResidentBytes(pid int) (int64, error)
}
