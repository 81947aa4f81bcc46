package errors

import "fmt"

// MissingProjectRoot reports that no project root could be resolved for a
// project-scoped target.
func MissingProjectRoot() *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  "no project root found",
		Usage:    "fig --project <dir> <command>",
		Remediation: []string{
			"run fig from inside the project directory",
			"or pass the project root explicitly with --project",
		},
	}
}

// UnknownTarget reports an unrecognized editing target name.
func UnknownTarget(name string) *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  fmt.Sprintf("unknown settings target %q", name),
		Usage:    "fig --target <global|project|local|mcp> <command>",
		Remediation: []string{
			"use one of: global, project, local, mcp",
		},
	}
}

// MalformedSettings reports an unparseable settings file. The file is left
// untouched on disk; fig will not save over content it cannot parse.
func MalformedSettings(path string, err error) *CLIError {
	return &CLIError{
		Category: Document,
		Message:  fmt.Sprintf("settings file %s is not valid JSON: %v", path, err),
		Err:      err,
		Remediation: []string{
			fmt.Sprintf("fix the JSON syntax in %s manually", path),
			"fig preserves the original file content; nothing has been overwritten",
		},
	}
}

// UnresolvedConflict reports a save that was blocked by a pending external
// change.
func UnresolvedConflict(path string) *CLIError {
	return &CLIError{
		Category: Conflict,
		Message:  fmt.Sprintf("%s was modified outside fig while you had unsaved edits", path),
		Err:      ErrConflictUnresolved,
		Remediation: []string{
			"resolve with --keep-local to overwrite the external change",
			"or --use-external to discard your local edits",
		},
	}
}

// SaveFailed reports a filesystem failure during save.
func SaveFailed(path string, err error) *CLIError {
	return &CLIError{
		Category: IO,
		Message:  fmt.Sprintf("saving %s: %v", path, err),
		Err:      err,
		Remediation: []string{
			"check that the directory exists and is writable",
		},
	}
}
