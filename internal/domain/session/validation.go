package session

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ganot/chronicle/internal/domain/summary"
)

const maxSummaryLength = 500

// validateDelta rejects no-op updates before any I/O happens. The session
// summary line is required in all cases: every version-log row needs one.
func validateDelta(delta summary.Delta) error {
	trimmed := strings.TrimSpace(delta.Summary)
	if err := validation.Validate(trimmed,
		validation.Required.Error("session summary must not be empty"),
		validation.Length(1, maxSummaryLength),
	); err != nil {
		return err
	}
	for _, d := range delta.Decisions {
		if strings.TrimSpace(d) == "" {
			return validation.NewError("validation_blank_decision", "decisions must not contain blank entries")
		}
	}
	return nil
}
