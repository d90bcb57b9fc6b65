package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"
)

// lineDisplay shows progress on a single status line. On a terminal the
// line is rewritten in place; elsewhere each update is a new line.
type lineDisplay struct {
	mu    sync.Mutex
	w     io.Writer
	tty   bool
	width int
	shown bool
}

func newLineDisplay(w io.Writer) *lineDisplay {
	d := &lineDisplay{w: w, width: defaultWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 1 {
			d.width = width - 1
		}
	}
	return d
}

func (d *lineDisplay) Show(jobID, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text = truncate.StringWithTail(text, uint(d.width), "…")
	if d.tty {
		fmt.Fprintf(d.w, "\r\x1b[K%s", text)
	} else {
		fmt.Fprintln(d.w, text)
	}
	d.shown = true
}

func (d *lineDisplay) Clear(jobID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tty && d.shown {
		fmt.Fprint(d.w, "\r\x1b[K")
	}
	d.shown = false
}
