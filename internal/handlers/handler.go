package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/executor/internal/handlers/response"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

// RegisterHealth registers the liveness probe
func RegisterHealth(router *mux.Router, serviceName string) {
	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		ResponseWithJson(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	}).Methods("GET")
}

func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// ResponseError maps an error returned by a service onto an HTTP status
func ResponseError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrInvalidSubmission):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInfrastructure):
		status = http.StatusServiceUnavailable
	}
	response.WriteError(w, response.ErrorMessage{
		Message:    err.Error(),
		StatusCode: status,
	})
}
