// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning and informational output with color
// support and a quiet mode. Log output goes through pkg/logger; presenter is
// for the human in front of the terminal.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Stats summarizes one extraction run for the terminal.
type Stats struct {
	Units      int
	NewKeys    int
	ReusedKeys int
	Skipped    int
	Locales    int
}

// TerminalPresenter writes user-facing messages to a terminal.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a presenter on stdout/stderr honoring NO_COLOR and
// LINGO_COLOR=never.
func New() *TerminalPresenter {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("LINGO_COLOR") == "never" {
		color.NoColor = true
	}
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates a presenter with custom writers, used by tests.
func NewWithWriters(output, errorOutput io.Writer) *TerminalPresenter {
	return &TerminalPresenter{output: output, errorOutput: errorOutput}
}

// SetQuiet suppresses everything except errors.
func (p *TerminalPresenter) SetQuiet(quiet bool) { p.quiet = quiet }

// IsQuiet reports whether quiet mode is on.
func (p *TerminalPresenter) IsQuiet() bool { return p.quiet }

// Error displays an error message with context to stderr. Errors are shown
// even in quiet mode.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}
	errorColor := color.New(color.FgRed, color.Bold)
	if context != "" {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		errorColor.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success displays a success message.
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning displays a warning message.
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info displays an informational message.
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section displays a section header.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(p.output, "\n=== %s ===\n", title)
}

// Separator displays a visual separator line.
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, "--------------------------------------------------------------------------------")
}

// Stats displays the run summary block.
func (p *TerminalPresenter) Stats(s Stats) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "Units: %d | New keys: %d | Reused: %d | Skipped: %d | Locales: %d\n",
		s.Units, s.NewKeys, s.ReusedKeys, s.Skipped, s.Locales)
}

// default presenter for package-level helpers, mirroring how commands use a
// single shared terminal presenter
var defaultPresenter = New()

// Error calls the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success calls the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning calls the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info calls the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section calls the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// Separator calls the default presenter.
func Separator() { defaultPresenter.Separator() }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }

// ShowStats prints the run summary on the default presenter.
func ShowStats(s Stats) { defaultPresenter.Stats(s) }
