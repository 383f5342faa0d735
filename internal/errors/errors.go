// Package errors provides structured error handling for the scribe CLI.
// It includes categorized errors with actionable remediation guidance.
package errors

import "fmt"

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
	// Template errors occur when a template cannot be found or rendered.
	Template
	// Output errors occur while merging rendered content into a target file.
	Output
	// Provider errors come from the completion provider backend.
	Provider
	// Runtime errors occur during command execution.
	Runtime
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Template:
		return "Template Error"
	case Output:
		return "Output Error"
	case Provider:
		return "Provider Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	// Category is the type of error (Argument, Configuration, etc.)
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (optional, for argument errors).
	Usage string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentErrorWithUsage creates a new argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Argument,
		Message:     message,
		Usage:       usage,
		Remediation: remediation,
	}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewTemplateError creates a new template error.
func NewTemplateError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Template,
		Message:     message,
		Remediation: remediation,
	}
}

// NewOutputError creates a new output error.
func NewOutputError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Output,
		Message:     message,
		Remediation: remediation,
	}
}

// NewProviderError creates a new provider error.
func NewProviderError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Provider,
		Message:     message,
		Remediation: remediation,
	}
}

// NewRuntimeError creates a new runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Runtime,
		Message:     message,
		Remediation: remediation,
	}
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// IsCLIError checks if an error is a CLIError.
func IsCLIError(err error) bool {
	_, ok := err.(*CLIError)
	return ok
}

// AsCLIError attempts to convert an error to a CLIError.
// Returns nil if the error is not a CLIError.
func AsCLIError(err error) *CLIError {
	cliErr, ok := err.(*CLIError)
	if ok {
		return cliErr
	}
	return nil
}
