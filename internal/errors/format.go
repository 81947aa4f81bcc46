package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// FormatError renders a CLIError (or any error) for terminal output with
// colors. Non-CLIError values render as a plain message line.
func FormatError(err error) string {
	return formatError(err, true)
}

// FormatErrorPlain renders an error without ANSI escape codes, for logs and
// non-TTY output.
func FormatErrorPlain(err error) string {
	return formatError(err, false)
}

func formatError(err error, colorize bool) string {
	if err == nil {
		return ""
	}

	cliErr, ok := err.(*CLIError)
	if !ok {
		return err.Error() + "\n"
	}

	header := cliErr.Category.String()
	if colorize {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", header, cliErr.Message)

	if cliErr.Usage != "" {
		fmt.Fprintf(&b, "\nUsage: %s\n", cliErr.Usage)
	}

	if len(cliErr.Remediation) > 0 {
		b.WriteString("\nTo fix this:\n")
		for _, step := range cliErr.Remediation {
			fmt.Fprintf(&b, "  • %s\n", step)
		}
	}

	return b.String()
}

// PrintError writes a formatted error to stderr.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError writes a formatted error to the given writer.
// Colors are only used when writing directly to stderr.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if w == os.Stderr {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}
