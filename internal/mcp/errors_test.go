package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/chronicle/internal/domain/locator"
	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/session"
	"github.com/ganot/chronicle/internal/domain/summary"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{locator.ErrNotFound, "PROJECT_NOT_FOUND"},
		{summary.ErrNotFound, "SUMMARY_NOT_FOUND"},
		{session.ErrSummaryNotFound, "SUMMARY_NOT_FOUND"},
		{summary.ErrAlreadyExists, "SUMMARY_EXISTS"},
		{summary.ErrMalformedRecord, "MALFORMED_SUMMARY"},
		{session.ErrInvalidDelta, "INVALID_DELTA"},
		{summary.ErrInvalidDelta, "INVALID_DELTA"},
		{summary.ErrInvalidInput, "INVALID_INPUT"},
		{summary.ErrDuplicateSnapshot, "DUPLICATE_SNAPSHOT"},
		{registry.ErrEntryNotFound, "NOT_REGISTERED"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			apiErr := MapError(tc.err)
			require.NotNil(t, apiErr)
			require.Equal(t, tc.code, apiErr.Code)
			require.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestMapError_WrappedErrorsStillMatch(t *testing.T) {
	wrapped := fmt.Errorf("loading summary: %w", summary.ErrNotFound)
	apiErr := MapError(wrapped)
	require.NotNil(t, apiErr)
	require.Equal(t, "SUMMARY_NOT_FOUND", apiErr.Code)
}

func TestMapError_UnknownError(t *testing.T) {
	require.Nil(t, MapError(errors.New("boom")))
}

func TestMapError_Nil(t *testing.T) {
	require.Nil(t, MapError(nil))
}
