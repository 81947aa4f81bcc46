// Package errors defines the error taxonomy for fig: categorized CLI errors
// with remediation steps, plus the sentinel and typed errors used by the
// settings document lifecycle (parse failures, blocked saves, missing files).
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies CLI errors for formatting and exit-code mapping.
type ErrorCategory int

const (
	// Argument indicates invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration indicates a problem with fig's own configuration.
	Configuration
	// Document indicates a problem loading or parsing a settings document.
	Document
	// Conflict indicates an unresolved external change blocking an operation.
	Conflict
	// IO indicates a filesystem failure during load or save.
	IO
)

// String returns a human-readable category name.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Document:
		return "Document Error"
	case Conflict:
		return "Conflict Error"
	case IO:
		return "I/O Error"
	default:
		return "Error"
	}
}

// CLIError is a user-facing error with a category, optional usage string,
// and remediation steps rendered below the message.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	Err         error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// ErrConflictUnresolved blocks a save while an external change is pending.
// The caller must resolve the conflict (keep local or use external) first.
var ErrConflictUnresolved = errors.New("save blocked: unresolved external change")

// ErrSessionClosed is returned by operations on a closed edit session.
var ErrSessionClosed = errors.New("edit session closed")

// ParseError reports a malformed settings document. The store retains the
// original raw bytes so a failed parse never loses on-disk content.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing settings file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
