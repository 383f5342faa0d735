package cli

import (
	clierrors "github.com/scribe-cli/scribe/internal/errors"
)

// Exit codes for the scribe CLI.
// These codes support scripting and CI integration.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitFailure indicates a general runtime failure.
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 3

	// ExitConfiguration indicates invalid or unreadable configuration.
	ExitConfiguration = 4

	// ExitTemplate indicates a template could not be found or rendered.
	ExitTemplate = 5

	// ExitOutput indicates the output file could not be written.
	ExitOutput = 6

	// ExitProvider indicates the completion provider failed.
	ExitProvider = 7
)

// ExitCode maps an error to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		return ExitFailure
	}
	switch cliErr.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfiguration
	case clierrors.Template:
		return ExitTemplate
	case clierrors.Output:
		return ExitOutput
	case clierrors.Provider:
		return ExitProvider
	default:
		return ExitFailure
	}
}
