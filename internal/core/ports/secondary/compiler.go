package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

type Compiler interface {
	// Compile writes code to the workspace source path and builds the workspace executable.
	// A non-nil error means the toolchain could not be run at all.
	Compile(ctx context.Context, code string, ws *domain.Workspace) (domain.CompilationOutcome, error)
}
