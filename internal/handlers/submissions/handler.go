package submissions

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/services/execution"
	"gitlab.com/fcv-2025.net/executor/internal/handlers"
	"gitlab.com/fcv-2025.net/executor/internal/handlers/response"
)

const maxRequestBytes = 8 << 20

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	executionService execution.IExecutionService
	logger           primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(executionService execution.IExecutionService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		executionService: executionService,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/submissions/test", h.TestSubmission).Methods("POST")
}

// TestSubmission compiles the code, runs every test case and responds with the ordered results
func (h *SubmissionHandler) TestSubmission(w http.ResponseWriter, r *http.Request) {
	var req TestSubmissionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	submission := req.toDomain()
	h.logger.Info("Received submission", "submissionId", submission.ID, "testCases", len(submission.TestCases))

	result, err := h.executionService.Execute(r.Context(), submission)
	if err != nil {
		h.logger.Error("Failed to execute submission", "submissionId", submission.ID, "error", err)
		handlers.ResponseError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, result.Results)
}
