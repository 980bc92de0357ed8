// pkg/ng_err/classification.go
//
// Error classification with exit codes. A run of netguard communicates its
// result to the timer that launched it only through the process exit status,
// so every error leaving a command is mapped to one here.

package ng_err

import (
	"fmt"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// ErrorCategory classifies errors for appropriate handling
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - invalid configuration or flags (exit 2)
	CategoryValidation
	// CategoryNetwork - connectivity could not be restored (exit 1)
	CategoryNetwork
	// CategoryConfiguration - a required setting resolved empty at run time (exit 1)
	CategoryConfiguration
	// CategoryDependency - missing external tool (exit 1)
	CategoryDependency
	// CategoryInternal - bugs in netguard itself (exit 3)
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryNetwork:
		return "network"
	case CategoryConfiguration:
		return "configuration"
	case CategoryDependency:
		return "dependency"
	case CategoryInternal:
		return "internal"
	default:
		return "system"
	}
}

// ClassifiedError wraps an error with category and remediation info
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	return sb.String()
}

// Unwrap returns the underlying error
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// Hints returns the remediation steps, one per line.
func (e *ClassifiedError) Hints() string {
	if len(e.Remediation) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, step := range e.Remediation {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, step))
	}
	return sb.String()
}

// ExitCode returns the appropriate exit code for this error category
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	default:
		return 1
	}
}

// GetExitCode extracts exit code from any error
// Returns 0 for nil, appropriate code for classified errors, 1 for others
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var classified *ClassifiedError
	if cerr.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}

	return 1
}

// NewValidationError creates an error for input validation failures
func NewValidationError(message string, cause error, remediation ...string) error {
	return cerr.WithStack(&ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	})
}

// NewConfigurationError creates an error for settings that resolved empty
// after loading succeeded.
func NewConfigurationError(message string, remediation ...string) error {
	return cerr.WithStack(&ClassifiedError{
		Category:    CategoryConfiguration,
		Message:     message,
		Remediation: remediation,
	})
}

// NewDependencyError creates an error for missing external tools
func NewDependencyError(dependency, operation string, remediation ...string) error {
	return cerr.WithStack(&ClassifiedError{
		Category: CategoryDependency,
		Message: fmt.Sprintf("%s is required for %s but not found",
			dependency, operation),
		Remediation: remediation,
	})
}

// NewNetworkError creates an error for connectivity that could not be restored
func NewNetworkError(message string, cause error, remediation ...string) error {
	return cerr.WithStack(&ClassifiedError{
		Category:    CategoryNetwork,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	})
}

// NewInternalError creates an error for netguard bugs
func NewInternalError(message string, cause error) error {
	return cerr.WithStack(&ClassifiedError{
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
	})
}

// CategoryOf returns the category of err, or CategorySystem when err is not
// classified.
func CategoryOf(err error) ErrorCategory {
	var classified *ClassifiedError
	if cerr.As(err, &classified) {
		return classified.Category
	}
	return CategorySystem
}
