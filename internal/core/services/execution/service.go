package execution

import (
	"context"

	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

// IExecutionService defines the compile-and-test pipeline exposed to transports
type IExecutionService interface {
	// Execute compiles the submission and runs every test case in order
	Execute(ctx context.Context, submission *domain.SubmissionRequest) (*domain.ExecutionResult, error)

	// InFlight returns the number of submissions currently being processed
	InFlight() int

	// Capacity returns how many submissions may be processed at once
	Capacity() int
}
