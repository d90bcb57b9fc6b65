package progress

import (
	"fmt"
	"math"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer turns a progress record into display text.
type Renderer interface {
	Render(hipparchia.ProgressRecord) string
}

// Variant selects a Renderer by name.
type Variant string

const (
	VariantNone   Variant = "none"
	VariantSimple Variant = "simple"
	VariantFull   Variant = "full"
)

// ParseVariant resolves a variant name.
func ParseVariant(name string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(name))); v {
	case VariantNone, VariantSimple, VariantFull:
		return v, nil
	}
	return "", fmt.Errorf("unknown progress variant %q", name)
}

// Renderer returns the renderer for v, or nil when no progress is shown.
func (v Variant) Renderer() Renderer {
	switch v {
	case VariantSimple:
		return Simple{}
	case VariantFull:
		return NewFull()
	}
	return nil
}

// Simple shows the status message and elapsed time.
type Simple struct{}

func (Simple) Render(r hipparchia.ProgressRecord) string {
	return withElapsed(r.Statusmessage, r.Elapsed)
}

// Full adds completion percentage, hit count, and notes.
type Full struct {
	printer *message.Printer
}

func NewFull() Full {
	return Full{printer: message.NewPrinter(language.English)}
}

func (f Full) Render(r hipparchia.ProgressRecord) string {
	var b strings.Builder
	if pct, ok := percent(r); ok && pct < 100 {
		b.WriteString(withElapsed(fmt.Sprintf("%s: %d%% completed", r.Statusmessage, pct), r.Elapsed))
	} else {
		b.WriteString(withElapsed(r.Statusmessage, r.Elapsed))
	}
	if r.Hitcount > 0 {
		p := f.printer
		if p == nil {
			p = message.NewPrinter(language.English)
		}
		b.WriteString("\n")
		b.WriteString(p.Sprintf("(%d found)", r.Hitcount))
	}
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		b.WriteString("\n")
		b.WriteString(notes)
	}
	return b.String()
}

// percent is undefined for an unknown (-1) or empty pool of work.
func percent(r hipparchia.ProgressRecord) (int, bool) {
	if r.Poolofwork == -1 || r.Poolofwork == 0 {
		return 0, false
	}
	done := float64(r.Poolofwork-r.Remaining) / float64(r.Poolofwork) * 100
	return int(math.Round(done)), true
}

func withElapsed(msg, elapsed string) string {
	if strings.TrimSpace(elapsed) == "" {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, elapsed)
}
