// Package errors provides the structured API error surface for the web
// transport, including the mapping from the analysis pipeline's error
// taxonomy to HTTP responses.
package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"yieldpca/internal/yieldcurve"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// FromAnalysis maps an analysis pipeline error to its structured API
// representation. Every taxonomy error is a client-correctable 400 or 422;
// anything unrecognized is reported as an internal error.
func FromAnalysis(err error) *APIError {
	var (
		missingErr      *yieldcurve.MissingMaturityError
		insufficientErr *yieldcurve.InsufficientDataError
		degenerateErr   *yieldcurve.DegenerateColumnError
		componentErr    *yieldcurve.InvalidComponentCountError
		observationsErr *yieldcurve.InsufficientObservationsError
		nonFiniteErr    *yieldcurve.NonFiniteInputError
	)
	switch {
	case errors.As(err, &missingErr):
		return NewWithDetails(http.StatusUnprocessableEntity, "MISSING_MATURITY", missingErr.Error(), string(missingErr.Maturity))
	case errors.As(err, &insufficientErr):
		return NewWithDetails(http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", insufficientErr.Error(), string(insufficientErr.Maturity))
	case errors.As(err, &degenerateErr):
		return NewWithDetails(http.StatusUnprocessableEntity, "DEGENERATE_COLUMN", degenerateErr.Error(), string(degenerateErr.Maturity))
	case errors.As(err, &componentErr):
		return New(http.StatusBadRequest, "INVALID_COMPONENT_COUNT", componentErr.Error())
	case errors.As(err, &observationsErr):
		return New(http.StatusUnprocessableEntity, "INSUFFICIENT_OBSERVATIONS", observationsErr.Error())
	case errors.As(err, &nonFiniteErr):
		return New(http.StatusUnprocessableEntity, "NON_FINITE_INPUT", nonFiniteErr.Error())
	default:
		return NewWithDetails(http.StatusInternalServerError, "ANALYSIS_FAILED", "Analysis failed", err.Error())
	}
}
