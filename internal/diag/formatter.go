package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI escape sequences used when the output is a real terminal. The
// compiled runtime's panic helper uses the same palette.
const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// Formatter renders diagnostics to a writer, coloring them when the
// writer is a terminal.
type Formatter struct {
	out   io.Writer
	color bool
}

// NewFormatter returns a formatter writing to stderr, with color
// enabled only when stderr is a terminal.
func NewFormatter() *Formatter {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return &Formatter{out: os.Stderr, color: color}
}

// NewWriterFormatter returns a formatter writing to out. Color is
// explicit; callers that hold a plain buffer pass false.
func NewWriterFormatter(out io.Writer, color bool) *Formatter {
	return &Formatter{out: out, color: color}
}

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return code + s + ansiReset
}

func (f *Formatter) severityLabel(sev Severity) string {
	switch sev {
	case SeverityWarning:
		return f.paint(ansiYellow+ansiBold, string(sev))
	case SeverityNote:
		return f.paint(ansiCyan+ansiBold, string(sev))
	default:
		return f.paint(ansiRed+ansiBold, string(SeverityError))
	}
}

// Format renders one diagnostic.
func (f *Formatter) Format(d *Diagnostic) {
	label := f.severityLabel(d.Severity)
	if d.Internal {
		label = f.paint(ansiRed+ansiBold, "internal compiler error")
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", label, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", label, d.Message)
	}

	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  %s: %s\n", f.paint(ansiCyan, "note"), note)
	}

	if d.Internal {
		fmt.Fprintf(f.out, "  %s: this is a bug in the compiler, not in your program\n", f.paint(ansiCyan, "note"))
	}
}
