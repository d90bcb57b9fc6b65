package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormField is one labelled input of a FormPrompt.
type FormField struct {
	Key         string
	Label       string
	Placeholder string
	Initial     string
}

// FormPrompt requests interactive input. ID selects the submit handler.
type FormPrompt struct {
	ID      string
	Title   string
	Help    string
	Target  string
	Fields  []FormField
	Context Context
}

// SubmitFunc turns the form values into a command, or reports why it cannot.
type SubmitFunc func(ctx Context, target string, values map[string]string) (tea.Cmd, error)

func formSubmitters() map[string]SubmitFunc {
	return map[string]SubmitFunc{
		"search":          submitSearch,
		"lookup":          submitLookup,
		"reverse":         submitReverse,
		"browse":          submitBrowse,
		"selections:make": submitMakeSelection,
		"selections:find": submitFind,
		"lemmata":         submitLemmaHints,
		"options:number":  submitNumber,
		"session:author":  submitAuthor,
	}
}

type Form struct {
	inputs []textinput.Model
	fields []FormField
	focus  int
	ctx    Context
	err    string
	id     string
	target string
	title  string
	help   string
	submit SubmitFunc
}

func NewForm(prompt FormPrompt) *Form {
	inputs := make([]textinput.Model, len(prompt.Fields))
	for i, field := range prompt.Fields {
		ti := textinput.New()
		ti.Prompt = field.Label + ": "
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 256
		if field.Initial != "" {
			ti.SetValue(field.Initial)
		}
		inputs[i] = ti
	}
	help := prompt.Help
	if help == "" {
		help = "Enter to submit. Tab to switch fields. Esc to cancel."
	}
	form := &Form{
		inputs: inputs,
		fields: append([]FormField(nil), prompt.Fields...),
		ctx:    prompt.Context,
		id:     prompt.ID,
		target: prompt.Target,
		title:  prompt.Title,
		help:   help,
		submit: formSubmitters()[prompt.ID],
	}
	form.setFocus(0)
	return form
}

func (f *Form) Context() Context { return f.ctx }
func (f *Form) ID() string       { return f.id }
func (f *Form) Target() string   { return f.target }
func (f *Form) Title() string    { return f.title }
func (f *Form) Help() string     { return f.help }
func (f *Form) Error() string    { return f.err }
func (f *Form) Focus() int       { return f.focus }

// Values returns every field value keyed by field key. Values are not
// trimmed: a trailing space is meaningful to the search server.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.inputs))
	for i, in := range f.inputs {
		out[f.fields[i].Key] = in.Value()
	}
	return out
}

// InputViews renders every input, one per line.
func (f *Form) InputViews() []string {
	views := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		views[i] = in.View()
	}
	return views
}

// PendingLabel describes the submitted form for the loading line.
func (f *Form) PendingLabel() string {
	var parts []string
	for i, in := range f.inputs {
		if v := strings.TrimSpace(in.Value()); v != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", f.fields[i].Key, v))
		}
	}
	if len(parts) == 0 {
		return f.id
	}
	return f.id + " " + strings.Join(parts, " ")
}

func (f *Form) setFocus(idx int) {
	if len(f.inputs) == 0 {
		return
	}
	idx = (idx + len(f.inputs)) % len(f.inputs)
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	f.focus = idx
}

// Update handles one message. It returns the command to run, whether the
// form was submitted, and whether it was cancelled.
func (f *Form) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if len(f.inputs) == 0 {
		return nil, false, true
	}
	if m, ok := msg.(tea.KeyMsg); ok {
		switch m.String() {
		case "ctrl+u":
			f.inputs[f.focus].SetValue("")
			f.inputs[f.focus].CursorStart()
			f.err = ""
			return nil, false, false
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return nil, false, false
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return nil, false, false
		}
		switch m.Type {
		case tea.KeyEsc:
			return nil, false, true
		case tea.KeyEnter:
			if f.submit == nil {
				f.err = fmt.Sprintf("no handler for %s", f.id)
				return nil, false, false
			}
			cmd, err := f.submit(f.ctx, f.target, f.Values())
			if err != nil {
				f.err = err.Error()
				return nil, false, false
			}
			f.err = ""
			return cmd, true, false
		}
	}

	updated, cmd := f.inputs[f.focus].Update(msg)
	f.inputs[f.focus] = updated
	f.err = ""
	return cmd, false, false
}

func promptCmd(prompt FormPrompt) tea.Cmd {
	return func() tea.Msg { return prompt }
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
