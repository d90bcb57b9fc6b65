package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const defaultWidth = 100

var (
	errColor     = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
	sectionColor = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
)

// printErr writes an error line.
func printErr(w io.Writer, msg string) {
	errColor.Fprintf(w, "✗ %s\n", msg)
}

func printOK(w io.Writer, msg string) {
	okColor.Fprintf(w, "✓ %s\n", msg)
}

// printSection writes a heading followed by body. Empty bodies are skipped.
func printSection(w io.Writer, title, body string) {
	if body == "" {
		return
	}
	sectionColor.Fprintf(w, "== %s ==\n", title)
	fmt.Fprintln(w, body)
	fmt.Fprintln(w)
}

func printDim(w io.Writer, format string, args ...interface{}) {
	dimColor.Fprintf(w, format, args...)
}

// outputWidth is the configured width, else the terminal width of w, else
// defaultWidth.
func outputWidth(w io.Writer, configured int) int {
	if configured > 0 {
		return configured
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}
