package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

type CodeExecutor interface {
	// Execute compiles the submission and runs it against every test case in order
	Execute(ctx context.Context, submission *domain.SubmissionRequest) (*domain.ExecutionResult, error)
}
