package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

const (
	filePrefix      = "submission_"
	sourceExtension = ".cpp"
)

var _ secondary.WorkspaceAllocator = (*Manager)(nil)

// Manager hands out uniquely named source/executable paths under a root directory
type Manager struct {
	root   string
	logger primary.Logger
}

// NewManager creates the root directory if needed
func NewManager(root string, logger primary.Logger) (*Manager, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create workspace root %s: %w", errs.ErrInfrastructure, root, err)
	}
	return &Manager{
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the directory every workspace lives in
func (m *Manager) Root() string {
	return m.root
}

// Allocate reserves a fresh pair of paths. Names are UUID-derived so concurrent
// submissions never collide and no locking is needed.
func (m *Manager) Allocate() (*domain.Workspace, error) {
	id := uuid.New()
	base := filepath.Join(m.root, filePrefix+id.String())
	sourcePath := base + sourceExtension
	executablePath := base

	ws := domain.NewWorkspace(id, sourcePath, executablePath, func() error {
		m.logger.Debug("Deleting workspace files", "workspaceId", id)
		return multierr.Combine(removeIfExists(sourcePath), removeIfExists(executablePath))
	})

	m.logger.Debug("Workspace allocated", "workspaceId", id, "source", sourcePath)
	return ws, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
