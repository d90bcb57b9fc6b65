package session

import "strconv"

const (
	valueYes = "yes"
	valueNo  = "no"
)

// Indicators is a pair of visibility markers kept in step with a control.
type Indicators interface {
	Set(active bool)
	Shown() (on, off bool)
	Present() bool
}

// IndicatorPair shows exactly one of its two markers.
type IndicatorPair struct {
	On       string
	Off      string
	onShown  bool
	offShown bool
}

// NewIndicatorPair starts with the inactive marker shown.
func NewIndicatorPair(on, off string) *IndicatorPair {
	return &IndicatorPair{On: on, Off: off, offShown: true}
}

func (p *IndicatorPair) Set(active bool) {
	p.onShown = active
	p.offShown = !active
}

func (p *IndicatorPair) Shown() (bool, bool) {
	return p.onShown, p.offShown
}

func (p *IndicatorPair) Present() bool { return true }

type noIndicators struct{}

func (noIndicators) Set(bool)            {}
func (noIndicators) Shown() (bool, bool) { return false, false }
func (noIndicators) Present() bool       { return false }

// NoIndicators is the pair used by controls without visibility markers.
var NoIndicators Indicators = noIndicators{}

// Toggle is a single yes/no control.
type Toggle struct {
	Key        string
	Label      string
	Checked    bool
	Indicators Indicators
}

func (t *Toggle) set(on bool) {
	t.Checked = on
	t.Indicators.Set(on)
}

// Value returns the wire value for the current state.
func (t *Toggle) Value() string {
	return yesNo(t.Checked)
}

// ExclusivePair is one option presented as two mutually exclusive controls.
type ExclusivePair struct {
	Key        string
	Label      string
	YesLabel   string
	NoLabel    string
	Indicators Indicators
	yes        bool
}

// Yes reports whether the yes-control is active.
func (p *ExclusivePair) Yes() bool { return p.yes }

// No reports whether the no-control is active.
func (p *ExclusivePair) No() bool { return !p.yes }

func (p *ExclusivePair) set(yes bool) {
	p.yes = yes
	p.Indicators.Set(yes)
}

// Value returns the wire value for the current state.
func (p *ExclusivePair) Value() string {
	return yesNo(p.yes)
}

// Spinner is a bounded integer control.
type Spinner struct {
	Key   string
	Label string
	Min   int
	Max   int
	Step  int
	Value int
}

func (s *Spinner) clamp(v int) int {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Increment returns the value one step up, clamped.
func (s *Spinner) Increment() int {
	return s.clamp(s.Value + s.step())
}

// Decrement returns the value one step down, clamped.
func (s *Spinner) Decrement() int {
	return s.clamp(s.Value - s.step())
}

func (s *Spinner) step() int {
	if s.Step <= 0 {
		return 1
	}
	return s.Step
}

func (s *Spinner) parse(raw string) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return s.clamp(v), true
}

// Selector is a fixed-option control.
type Selector struct {
	Key     string
	Label   string
	Choices []string
	Value   string
}

func (s *Selector) valid(v string) bool {
	for _, c := range s.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// Next returns the choice after the current one, wrapping.
func (s *Selector) Next() string {
	if len(s.Choices) == 0 {
		return s.Value
	}
	for i, c := range s.Choices {
		if c == s.Value {
			return s.Choices[(i+1)%len(s.Choices)]
		}
	}
	return s.Choices[0]
}

func yesNo(b bool) string {
	if b {
		return valueYes
	}
	return valueNo
}
