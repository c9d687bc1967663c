package submissions

import "gitlab.com/fcv-2025.net/executor/internal/domain"

// TestSubmissionRequest is the body of POST /api/submissions/test
type TestSubmissionRequest struct {
	Code          string            `json:"code"`
	TestCases     []TestCaseRequest `json:"testcases"`
	MemoryLimitMB int               `json:"memoryLimitMb"`
	TimeLimitMs   int               `json:"timeLimitMs"`
}

type TestCaseRequest struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

func (r TestSubmissionRequest) toDomain() *domain.SubmissionRequest {
	testCases := make([]domain.TestCase, len(r.TestCases))
	for i, tc := range r.TestCases {
		testCases[i] = domain.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}
	}
	return domain.NewSubmissionRequest(r.Code, testCases, r.MemoryLimitMB, r.TimeLimitMs)
}
