package menu

import (
	"context"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/atomicstack/hipparchia-console/internal/session"
)

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
}

// Server is the part of the Hipparchia client that menu actions call
// directly. Jobs and option edits go through the UI instead.
type Server interface {
	ResetSession(ctx context.Context) error
	CheckUser(ctx context.Context) (string, error)
	SearchList(ctx context.Context) (string, error)
	GenreList(ctx context.Context) (string, error)
	AuthorInfo(ctx context.Context, authorID string) (string, error)
	MakeSelection(ctx context.Context, rawQuery string) (hipparchia.Selections, error)
	ClearSelection(ctx context.Context, path string) (hipparchia.Selections, error)
	Hints(ctx context.Context, kind hipparchia.HintKind, term string) ([]string, error)
	WorksOf(ctx context.Context, authorID string) ([]string, error)
	WorkStructure(ctx context.Context, locus string) (hipparchia.WorkLevel, error)
}

// Context carries runtime data needed by loader functions.
type Context struct {
	Base           context.Context
	Server         Server
	ServerURL      string
	Options        []session.Entry
	Selections     hipparchia.Selections
	SelectionLinks []render.Link
	History        []JobEntry
	VectorMode     string
}

// Ctx returns the context actions should run under.
func (c Context) Ctx() context.Context {
	if c.Base != nil {
		return c.Base
	}
	return context.Background()
}

// JobEntry is one dispatched job as remembered by the history menu.
type JobEntry struct {
	ID      string
	Kind    hipparchia.Kind
	Label   string
	Request jobs.Request
	Started time.Time
	Done    bool
	Err     string
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action.
type ActionResult struct {
	Info string
	Err  error
}

// JobRequest asks the UI to dispatch a job.
type JobRequest struct {
	Request jobs.Request
	Label   string
}

// BrowseRequest asks the UI to open the passage browser at Locator.
type BrowseRequest struct {
	Locator string
	Raw     bool
}

// OptionEdit asks the UI to stage and push one option change.
type OptionEdit struct {
	Edit session.Edit
}

// ChoicePrompt asks the UI to offer the choices of a selector.
type ChoicePrompt struct {
	Key     string
	Label   string
	Choices []string
	Current string
}

// TextResult asks the UI to show an HTML fragment in the result panel.
type TextResult struct {
	Title string
	HTML  string
}

// SelectionsChanged carries a summary returned by a selection edit.
type SelectionsChanged struct {
	Selections hipparchia.Selections
	Info       string
}

// SessionReset reports that the server restored its default options.
type SessionReset struct{}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
