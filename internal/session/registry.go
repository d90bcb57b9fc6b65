package session

import "sort"

// Kind identifies which projection owns an option key.
type Kind int

const (
	KindUnknown Kind = iota
	KindToggle
	KindPair
	KindSpinner
	KindSelector
)

// Registry holds every option control. It is built once at startup and
// shared by reference with everything that reads or edits options.
type Registry struct {
	toggles   []*Toggle
	pairs     []*ExclusivePair
	spinners  []*Spinner
	selectors []*Selector
	byKey     map[string]Kind
	toggleIx  map[string]*Toggle
	pairIx    map[string]*ExclusivePair
	spinIx    map[string]*Spinner
	selectIx  map[string]*Selector
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:    make(map[string]Kind),
		toggleIx: make(map[string]*Toggle),
		pairIx:   make(map[string]*ExclusivePair),
		spinIx:   make(map[string]*Spinner),
		selectIx: make(map[string]*Selector),
	}
}

// AddToggle registers a yes/no control. A nil indicator set uses NoIndicators.
func (r *Registry) AddToggle(t *Toggle) *Toggle {
	if t.Indicators == nil {
		t.Indicators = NoIndicators
	}
	t.Indicators.Set(t.Checked)
	r.toggles = append(r.toggles, t)
	r.toggleIx[t.Key] = t
	r.byKey[t.Key] = KindToggle
	return t
}

// AddPair registers an exclusive pair. The no-control starts active.
func (r *Registry) AddPair(p *ExclusivePair) *ExclusivePair {
	if p.Indicators == nil {
		p.Indicators = NoIndicators
	}
	p.set(false)
	r.pairs = append(r.pairs, p)
	r.pairIx[p.Key] = p
	r.byKey[p.Key] = KindPair
	return p
}

// AddSpinner registers a bounded integer control.
func (r *Registry) AddSpinner(s *Spinner) *Spinner {
	s.Value = s.clamp(s.Value)
	r.spinners = append(r.spinners, s)
	r.spinIx[s.Key] = s
	r.byKey[s.Key] = KindSpinner
	return s
}

// AddSelector registers a fixed-option control.
func (r *Registry) AddSelector(s *Selector) *Selector {
	if s.Value == "" && len(s.Choices) > 0 {
		s.Value = s.Choices[0]
	}
	r.selectors = append(r.selectors, s)
	r.selectIx[s.Key] = s
	r.byKey[s.Key] = KindSelector
	return s
}

// KindOf reports which projection owns key.
func (r *Registry) KindOf(key string) Kind {
	return r.byKey[key]
}

func (r *Registry) Toggle(key string) (*Toggle, bool) {
	t, ok := r.toggleIx[key]
	return t, ok
}

func (r *Registry) Pair(key string) (*ExclusivePair, bool) {
	p, ok := r.pairIx[key]
	return p, ok
}

func (r *Registry) Spinner(key string) (*Spinner, bool) {
	s, ok := r.spinIx[key]
	return s, ok
}

func (r *Registry) Selector(key string) (*Selector, bool) {
	s, ok := r.selectIx[key]
	return s, ok
}

func (r *Registry) Toggles() []*Toggle      { return r.toggles }
func (r *Registry) Pairs() []*ExclusivePair { return r.pairs }
func (r *Registry) Spinners() []*Spinner    { return r.spinners }
func (r *Registry) Selectors() []*Selector  { return r.selectors }

// Keys lists every registered key, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the displayed wire value for key.
func (r *Registry) Value(key string) (string, bool) {
	switch r.byKey[key] {
	case KindToggle:
		return r.toggleIx[key].Value(), true
	case KindPair:
		return r.pairIx[key].Value(), true
	case KindSpinner:
		return itoa(r.spinIx[key].Value), true
	case KindSelector:
		return r.selectIx[key].Value, true
	}
	return "", false
}

// Label returns the display label for key, falling back to the key.
func (r *Registry) Label(key string) string {
	switch r.byKey[key] {
	case KindToggle:
		return r.toggleIx[key].Label
	case KindPair:
		return r.pairIx[key].Label
	case KindSpinner:
		return r.spinIx[key].Label
	case KindSelector:
		return r.selectIx[key].Label
	}
	return key
}

// Entry is a copy of one control's state, safe to read off the UI loop.
type Entry struct {
	Key     string
	Label   string
	Kind    Kind
	Value   string
	Display string
	Choices []string
	Min     int
	Max     int
}

// Snapshot copies every control in display order: pairs, spinners,
// selectors, then toggles.
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, len(r.byKey))
	for _, p := range r.pairs {
		display := p.NoLabel
		if p.Yes() {
			display = p.YesLabel
		}
		out = append(out, Entry{Key: p.Key, Label: p.Label, Kind: KindPair, Value: p.Value(), Display: display})
	}
	for _, s := range r.spinners {
		v := itoa(s.Value)
		out = append(out, Entry{Key: s.Key, Label: s.Label, Kind: KindSpinner, Value: v, Display: v, Min: s.Min, Max: s.Max})
	}
	for _, s := range r.selectors {
		choices := append([]string(nil), s.Choices...)
		out = append(out, Entry{Key: s.Key, Label: s.Label, Kind: KindSelector, Value: s.Value, Display: s.Value, Choices: choices})
	}
	for _, t := range r.toggles {
		display := "off"
		if t.Checked {
			display = "on"
		}
		out = append(out, Entry{Key: t.Key, Label: t.Label, Kind: KindToggle, Value: t.Value(), Display: display})
	}
	return out
}
