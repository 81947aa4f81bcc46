package cli

import "fmt"

// Exit codes for the fig CLI. These support scripting and CI composition.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0
	// ExitFailure indicates a general failure
	ExitFailure = 1
	// ExitConflict indicates a save was blocked by an unresolved external change
	ExitConflict = 2
	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3
	// ExitParseError indicates a settings file could not be parsed
	ExitParseError = 4
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err is a bare exit code carrier. Commands that
// return one have already reported the underlying problem to the user.
func IsExitError(err error) bool {
	_, ok := err.(*exitError)
	return ok
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	return ExitFailure
}
