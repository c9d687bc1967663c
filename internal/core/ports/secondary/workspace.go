package secondary

import "gitlab.com/fcv-2025.net/executor/internal/domain"

type WorkspaceAllocator interface {
	// Allocate reserves a unique source/executable path pair. The caller owns Release.
	Allocate() (*domain.Workspace, error)
}
