package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"newsAggregator/internal/database"
	"newsAggregator/internal/logging"
	"newsAggregator/internal/service"
	"newsAggregator/internal/validation"
)

const (
	MsgInternal        = "Internal server error"
	MsgTimeout         = "Request timed out"
	MsgPageNotPositive = "pagenumber must be greater then 0"
)

// MessageResponse is the body of write results and of not-found errors.
type MessageResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorResponse is the body of conflict and credentials errors.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteError sends message with a code field mirroring statusCode.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeMessage(w, message, statusCode)
}

func writeMessage(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, MessageResponse{Message: message, Code: statusCode}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// fail maps err onto the response taxonomy. Anything unrecognized is logged
// and reported as a bare 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  validation.Errors
		notFoundErr    *service.NotFoundError
		conflictErr    *service.ConflictError
		credentialsErr *service.CredentialsError
		configErr      *database.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr):
		writeSuccess(w, validationErr, http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		WriteError(w, notFoundErr.Message, http.StatusNotFound)
	case errors.As(err, &conflictErr):
		writeSuccess(w, ErrorResponse{Message: conflictErr.Message}, http.StatusBadRequest)
	case errors.As(err, &credentialsErr):
		writeSuccess(w, ErrorResponse{Message: credentialsErr.Message}, http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		logging.FromContext(r.Context()).WithError(err).Warn("request deadline exceeded")
		WriteError(w, MsgTimeout, http.StatusServiceUnavailable)
	case errors.As(err, &configErr):
		logging.FromContext(r.Context()).WithError(err).Error("store not configured")
		WriteError(w, MsgInternal, http.StatusInternalServerError)
	default:
		logging.FromContext(r.Context()).WithError(err).Error("request failed")
		WriteError(w, MsgInternal, http.StatusInternalServerError)
	}
}
