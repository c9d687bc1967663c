package execution

import (
	"strings"

	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

// Classify turns what the supervisor observed into exactly one verdict. It is pure.
// The exit status is not consulted: a normal exit is judged on its streams alone.
func Classify(outcome domain.RunOutcome, testCase domain.TestCase) domain.TestResult {
	result := domain.TestResult{
		Input:            testCase.Input,
		ExpectedOutput:   testCase.ExpectedOutput,
		Output:           outcome.Stdout,
		ExecutionTimeMs:  outcome.Elapsed.Milliseconds(),
		MemoryUsageBytes: outcome.PeakMemoryBytes,
	}

	switch {
	case outcome.Terminal == domain.TerminalMemoryBreach:
		result.Status = domain.VerdictMemoryLimitExceeded
	case outcome.Terminal == domain.TerminalTimedOut:
		result.Status = domain.VerdictTimeLimitExceeded
	case outcome.Stderr != "":
		result.Status = domain.VerdictRuntimeError
		result.Output = outcome.Stderr
	case strings.TrimSpace(outcome.Stdout) == strings.TrimSpace(testCase.ExpectedOutput):
		result.Status = domain.VerdictAccepted
		result.Success = true
	default:
		result.Status = domain.VerdictWrongAnswer
	}

	return result
}

// CompilationErrorResult synthesizes the single result returned when the build failed
func CompilationErrorResult(diagnostic string, testCases []domain.TestCase) domain.TestResult {
	result := domain.TestResult{
		Status: domain.VerdictCompilationError,
		Output: diagnostic,
	}
	if len(testCases) > 0 {
		result.Input = testCases[0].Input
		result.ExpectedOutput = testCases[0].ExpectedOutput
	}
	return result
}
