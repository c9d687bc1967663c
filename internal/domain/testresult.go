package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verdict represents the final classification of a single test run
type Verdict string

const (
	VerdictAccepted            Verdict = "ACCEPTED"
	VerdictWrongAnswer         Verdict = "WRONG_ANSWER"
	VerdictCompilationError    Verdict = "COMPILATION_ERROR"
	VerdictMemoryLimitExceeded Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictTimeLimitExceeded   Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictRuntimeError        Verdict = "RUNTIME_ERROR"
)

// TestResult represents the result of a single test case execution
type TestResult struct {
	Success          bool    `json:"success"`
	Status           Verdict `json:"status"`
	Input            string  `json:"input"`
	ExpectedOutput   string  `json:"expectedOutput"`
	Output           string  `json:"output"`
	ExecutionTimeMs  int64   `json:"executionTimeMs"`
	MemoryUsageBytes int64   `json:"memoryUsageBytes"`
}

// ExecutionResult represents the result of code execution against test cases
type ExecutionResult struct {
	SubmissionID      uuid.UUID
	Results           []TestResult
	CompilationOutput string
	ExecutionTimeMs   int64
	MemoryUsageBytes  int64
	CompletedAt       time.Time
}

// Accepted reports whether every test case passed
func (r *ExecutionResult) Accepted() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}
