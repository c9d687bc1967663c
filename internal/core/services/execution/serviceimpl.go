package execution

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

var (
	_ IExecutionService      = (*ExecutionService)(nil)
	_ secondary.CodeExecutor = (*ExecutionService)(nil)
)

// ExecutionService implements the compile-and-test pipeline
type ExecutionService struct {
	workspaces secondary.WorkspaceAllocator
	compiler   secondary.Compiler
	runner     TestRunner
	logger     primary.Logger

	capacity int
	gate     *semaphore.Weighted
	inFlight atomic.Int64
}

// NewExecutionService creates a new execution service admitting at most capacity submissions at once
func NewExecutionService(
	workspaces secondary.WorkspaceAllocator,
	compiler secondary.Compiler,
	runner TestRunner,
	capacity int,
	logger primary.Logger,
) *ExecutionService {
	if capacity <= 0 {
		capacity = 1
	}
	return &ExecutionService{
		workspaces: workspaces,
		compiler:   compiler,
		runner:     runner,
		logger:     logger,
		capacity:   capacity,
		gate:       semaphore.NewWeighted(int64(capacity)),
	}
}

func (s *ExecutionService) InFlight() int {
	return int(s.inFlight.Load())
}

func (s *ExecutionService) Capacity() int {
	return s.capacity
}

// Execute compiles the submission and runs it against each test case sequentially.
// Verdicts are returned as data; only invalid input, infrastructure faults and
// cancellation are returned as errors. The workspace is released on every path.
func (s *ExecutionService) Execute(ctx context.Context, submission *domain.SubmissionRequest) (*domain.ExecutionResult, error) {
	if err := ValidateSubmission(submission); err != nil {
		return nil, err
	}

	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire execution slot: %w", err)
	}
	defer s.gate.Release(1)
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	s.logger.Info("Processing submission",
		"submissionId", submission.ID,
		"testCases", len(submission.TestCases),
		"memoryLimitMb", submission.MemoryLimitMB,
		"timeLimitMs", submission.TimeLimitMs)

	ws, err := s.workspaces.Allocate()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to allocate workspace: %w", errs.ErrInfrastructure, err)
	}
	defer func() {
		if err := ws.Release(); err != nil {
			s.logger.Error("Failed to release workspace", "submissionId", submission.ID, "workspaceId", ws.ID, "error", err)
		}
	}()

	result := &domain.ExecutionResult{SubmissionID: submission.ID}

	compilation, err := s.compiler.Compile(ctx, submission.Code, ws)
	if err != nil {
		s.logger.Error("Compiler could not be run", "submissionId", submission.ID, "error", err)
		return nil, fmt.Errorf("failed to compile submission: %w", err)
	}
	if !compilation.Success {
		s.logger.Info("Compilation failed", "submissionId", submission.ID)
		result.CompilationOutput = compilation.Diagnostic
		result.Results = []domain.TestResult{CompilationErrorResult(compilation.Diagnostic, submission.TestCases)}
		result.CompletedAt = time.Now()
		return result, nil
	}

	limits := domain.RunLimits{
		MemoryLimitMB: submission.MemoryLimitMB,
		TimeLimit:     submission.TimeLimit(),
	}

	result.Results = make([]domain.TestResult, 0, len(submission.TestCases))
	for i, testCase := range submission.TestCases {
		outcome, err := s.runner.Run(ctx, ws.ExecutablePath, testCase.Input, limits)
		if err != nil {
			s.logger.Error("Test run failed", "submissionId", submission.ID, "testCase", i+1, "error", err)
			return nil, fmt.Errorf("failed to run test case %d: %w", i+1, err)
		}

		testResult := Classify(outcome, testCase)
		s.logger.Debug("Test case judged",
			"submissionId", submission.ID,
			"testCase", i+1,
			"status", testResult.Status,
			"timeMs", testResult.ExecutionTimeMs)

		result.Results = append(result.Results, testResult)
		if testResult.ExecutionTimeMs > result.ExecutionTimeMs {
			result.ExecutionTimeMs = testResult.ExecutionTimeMs
		}
		if testResult.MemoryUsageBytes > result.MemoryUsageBytes {
			result.MemoryUsageBytes = testResult.MemoryUsageBytes
		}
	}
	result.CompletedAt = time.Now()

	s.logger.Info("Submission judged",
		"submissionId", submission.ID,
		"accepted", result.Accepted(),
		"maxTimeMs", result.ExecutionTimeMs,
		"maxMemoryBytes", result.MemoryUsageBytes)

	return result, nil
}

// ValidateSubmission rejects requests that must never reach a spawned process
func ValidateSubmission(submission *domain.SubmissionRequest) error {
	if submission == nil {
		return fmt.Errorf("%w: submission is required", errs.ErrInvalidSubmission)
	}
	if submission.MemoryLimitMB <= 0 {
		return fmt.Errorf("%w: memory limit must be positive, got %d MB", errs.ErrInvalidSubmission, submission.MemoryLimitMB)
	}
	if submission.TimeLimitMs <= 0 {
		return fmt.Errorf("%w: time limit must be positive, got %d ms", errs.ErrInvalidSubmission, submission.TimeLimitMs)
	}
	return nil
}
