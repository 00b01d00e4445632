package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/chronicle/internal/domain/locator"
	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/session"
	"github.com/ganot/chronicle/internal/domain/summary"
)

// APIError represents a tool error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to tool error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, locator.ErrNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "no tracked project covers this directory", RecoveryHint: "Call create_summary to start tracking it"}
	case errors.Is(err, summary.ErrNotFound), errors.Is(err, session.ErrSummaryNotFound):
		return &APIError{Code: "SUMMARY_NOT_FOUND", Message: "no summary record for this path", RecoveryHint: "Call create_summary first"}
	case errors.Is(err, summary.ErrAlreadyExists):
		return &APIError{Code: "SUMMARY_EXISTS", Message: "a summary already exists for this path", RecoveryHint: "Use save_context to update it"}
	case errors.Is(err, summary.ErrMalformedRecord):
		return &APIError{Code: "MALFORMED_SUMMARY", Message: "the persisted summary is missing required fields", RecoveryHint: "Repair the SUMMARY.md by hand; it is never rewritten automatically"}
	case errors.Is(err, session.ErrInvalidDelta), errors.Is(err, summary.ErrInvalidDelta):
		return &APIError{Code: "INVALID_DELTA", Message: "the update carries nothing worth logging", RecoveryHint: "Provide a non-empty session summary"}
	case errors.Is(err, summary.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "path and name are required", RecoveryHint: "Provide an absolute project path and a display name"}
	case errors.Is(err, summary.ErrDuplicateSnapshot):
		return &APIError{Code: "DUPLICATE_SNAPSHOT", Message: "a snapshot for this version already exists", RecoveryHint: "Reload the record and retry"}
	case errors.Is(err, registry.ErrEntryNotFound):
		return &APIError{Code: "NOT_REGISTERED", Message: "path is not in the project registry", RecoveryHint: "Call create_summary to register it"}
	default:
		return nil
	}
}
