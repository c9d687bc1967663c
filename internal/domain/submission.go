package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionRequest represents a piece of code to be compiled and tested
type SubmissionRequest struct {
	ID            uuid.UUID  `json:"-"`
	Code          string     `json:"code"`
	TestCases     []TestCase `json:"testcases"`
	MemoryLimitMB int        `json:"memoryLimitMb"`
	TimeLimitMs   int        `json:"timeLimitMs"`
}

// NewSubmissionRequest creates a new submission request
func NewSubmissionRequest(code string, testCases []TestCase, memoryLimitMB, timeLimitMs int) *SubmissionRequest {
	return &SubmissionRequest{
		ID:            uuid.New(),
		Code:          code,
		TestCases:     testCases,
		MemoryLimitMB: memoryLimitMB,
		TimeLimitMs:   timeLimitMs,
	}
}

// TimeLimit returns the wall-clock limit of a single test run
func (s *SubmissionRequest) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitMs) * time.Millisecond
}
