// pkg/ng_err/util.go

package ng_err

import (
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// UserError marks an error the operator can fix, and which should not fail
// the timer unit.
type UserError struct {
	cause error
}

func (e *UserError) Error() string { return e.cause.Error() }

func (e *UserError) Unwrap() error { return e.cause }

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return cerr.As(err, &e)
}

// ExtractSummary extracts a concise error summary from full output.
func ExtractSummary(output string, maxCandidates int) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "No output provided."
	}

	lines := strings.Split(trimmed, "\n")
	var candidates []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lowerLine := strings.ToLower(line)
		if strings.Contains(lowerLine, "error") ||
			strings.Contains(lowerLine, "failed") ||
			strings.Contains(lowerLine, "cannot") ||
			strings.Contains(lowerLine, "not found") ||
			strings.Contains(lowerLine, "not in the password store") ||
			strings.Contains(lowerLine, "timeout") {
			candidates = append(candidates, line)
		}
	}

	if len(candidates) > 0 {
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		return strings.Join(candidates, " - ")
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	return "Unknown error."
}
