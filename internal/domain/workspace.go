package domain

import (
	"sync"

	"github.com/google/uuid"
)

// Workspace is the pair of filesystem locations allocated to one submission
type Workspace struct {
	ID             uuid.UUID
	SourcePath     string
	ExecutablePath string

	once       sync.Once
	cleanup    func() error
	releaseErr error
}

// NewWorkspace creates a workspace whose Release runs cleanup at most once
func NewWorkspace(id uuid.UUID, sourcePath, executablePath string, cleanup func() error) *Workspace {
	return &Workspace{
		ID:             id,
		SourcePath:     sourcePath,
		ExecutablePath: executablePath,
		cleanup:        cleanup,
	}
}

// Release deletes the workspace artifacts. Subsequent calls return the first call's error.
func (w *Workspace) Release() error {
	w.once.Do(func() {
		if w.cleanup != nil {
			w.releaseErr = w.cleanup()
		}
	})
	return w.releaseErr
}
