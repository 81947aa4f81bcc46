// Package progress provides spinner-based status display for long-running
// checks such as doctor diagnostics and watcher startup.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Display renders a sequence of named steps with a spinner on TTYs and plain
// lines everywhere else.
type Display struct {
	isTTY   bool
	colored bool
	spinner *spinner.Spinner
}

// NewDisplay creates a display, probing stdout for TTY support.
func NewDisplay(colored bool) *Display {
	return &Display{
		isTTY:   term.IsTerminal(int(os.Stdout.Fd())),
		colored: colored && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Start begins displaying a step.
func (d *Display) Start(msg string) {
	if d.isTTY {
		d.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		d.spinner.Writer = os.Stderr
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
		return
	}
	fmt.Println(msg)
}

// Done stops the spinner and prints a success line.
func (d *Display) Done(msg string) {
	d.stop()
	fmt.Printf("%s %s\n", d.mark("✓", color.FgGreen), msg)
}

// Fail stops the spinner and prints a failure line.
func (d *Display) Fail(msg string, err error) {
	d.stop()
	fmt.Printf("%s %s: %v\n", d.mark("✗", color.FgRed), msg, err)
}

func (d *Display) stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}

func (d *Display) mark(symbol string, c color.Attribute) string {
	if d.colored {
		return color.New(c).Sprint(symbol)
	}
	return symbol
}
