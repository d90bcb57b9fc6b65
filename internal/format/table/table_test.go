package table

import "testing"

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"earliest date", "-850"},
		{"maximum results", "200"},
		{"onehit", "yes"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"earliest date    -850",
		"maximum results   200",
		"onehit            yes",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFormatMeasuresGreekAndStyledCells(t *testing.T) {
	rows := [][]string{
		{"λόγος", "x"},
		{"\x1b[1mab\x1b[0m", "y"},
	}
	got := Format(rows, nil)
	if got[0] != "λόγος  x" {
		t.Fatalf("unexpected greek row %q", got[0])
	}
	if got[1] != "\x1b[1mab\x1b[0m     y" {
		t.Fatalf("unexpected styled row %q", got[1])
	}
}

func TestFormatTrimsTrailingPadding(t *testing.T) {
	got := Format([][]string{{"a", ""}, {"bbb", ""}}, nil)
	if got[0] != "a" || got[1] != "bbb" {
		t.Fatalf("expected trimmed rows, got %q", got)
	}
}

func TestFormatEmpty(t *testing.T) {
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
