package progress

import (
	"strings"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
)

func TestFullRenderShowsPercent(t *testing.T) {
	out := NewFull().Render(hipparchia.ProgressRecord{
		Statusmessage: "Searching",
		Elapsed:       "1.2s",
		Poolofwork:    100,
		Remaining:     40,
	})
	if out != "Searching: 60% completed (1.2s)" {
		t.Fatalf("unexpected render %q", out)
	}
}

func TestFullRenderOmitsPercentForUnknownPool(t *testing.T) {
	out := NewFull().Render(hipparchia.ProgressRecord{
		Statusmessage: "Searching",
		Elapsed:       "1.2s",
		Poolofwork:    -1,
		Remaining:     40,
	})
	if strings.Contains(out, "%") {
		t.Fatalf("expected no percent segment, got %q", out)
	}
	if out != "Searching (1.2s)" {
		t.Fatalf("unexpected render %q", out)
	}
}

func TestFullRenderOmitsPercentAtCompletion(t *testing.T) {
	out := NewFull().Render(hipparchia.ProgressRecord{Statusmessage: "Done", Poolofwork: 10, Remaining: 0})
	if strings.Contains(out, "%") {
		t.Fatalf("expected no percent at 100, got %q", out)
	}
}

func TestFullRenderHitsAndNotes(t *testing.T) {
	out := NewFull().Render(hipparchia.ProgressRecord{
		Statusmessage: "Searching",
		Poolofwork:    -1,
		Hitcount:      12345,
		Notes:         "phrase search",
	})
	want := "Searching\n(12,345 found)\nphrase search"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestSimpleRenderIgnoresCounts(t *testing.T) {
	out := Simple{}.Render(hipparchia.ProgressRecord{
		Statusmessage: "Indexing",
		Elapsed:       "3s",
		Poolofwork:    100,
		Remaining:     10,
		Hitcount:      5,
		Notes:         "n",
	})
	if out != "Indexing (3s)" {
		t.Fatalf("unexpected render %q", out)
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Full ")
	if err != nil || v != VariantFull {
		t.Fatalf("expected full, got %q (%v)", v, err)
	}
	if VariantNone.Renderer() != nil {
		t.Fatalf("expected no renderer for none")
	}
	if _, err := ParseVariant("fancy"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}
