package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/conorfennell/studyplan/internal/domain"
	"github.com/conorfennell/studyplan/internal/ingest"
	"github.com/conorfennell/studyplan/internal/logging"
	"github.com/conorfennell/studyplan/internal/session"
	"github.com/conorfennell/studyplan/internal/storage"
)

// Error codes
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeInvalidDate          = "INVALID_DATE"
	CodeValidation           = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeQuizFinished         = "QUIZ_FINISHED"
	CodeInsufficientMaterial = "INSUFFICIENT_MATERIAL"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternal             = "INTERNAL_ERROR"
)

// APIError is an error with an HTTP status and a machine-readable code.
type APIError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func badRequest(err error) *APIError {
	code := CodeBadRequest
	if errors.Is(err, domain.ErrInvalidDate) {
		code = CodeInvalidDate
	}
	return &APIError{Code: code, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
}

func validationError(err error) *APIError {
	return &APIError{Code: CodeValidation, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
}

// toAPIError maps domain errors onto HTTP statuses.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return badRequest(err)
	case errors.Is(err, session.ErrNotFound):
		return &APIError{Code: CodeNotFound, Message: err.Error(), Status: http.StatusNotFound, Err: err}
	case errors.Is(err, session.ErrFinished), errors.Is(err, storage.ErrStalePosition):
		return &APIError{Code: CodeQuizFinished, Message: err.Error(), Status: http.StatusConflict, Err: err}
	case errors.Is(err, ingest.ErrInsufficientText), errors.Is(err, session.ErrNoQuestions):
		return &APIError{
			Code:    CodeInsufficientMaterial,
			Message: "not enough material to generate quiz questions",
			Status:  http.StatusUnprocessableEntity,
			Err:     err,
		}
	default:
		return &APIError{Code: CodeInternal, Message: "internal server error", Status: http.StatusInternalServerError, Err: err}
	}
}

// handleError writes err as a JSON error body.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.FromContext(r.Context())
	apiErr := toAPIError(err)

	if apiErr.Status >= 500 {
		log.Error("Server error", "error", apiErr)
	} else {
		log.Warn("Client error", "error", apiErr)
	}

	writeJSON(w, apiErr.Status, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
