package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
)

type fakeBackend struct {
	options hipparchia.Options
	pushes  []Edit
	calls   []string
	failSet error
}

func (b *fakeBackend) Options(context.Context) (hipparchia.Options, error) {
	b.calls = append(b.calls, "options")
	out := hipparchia.Options{}
	for k, v := range b.options {
		out[k] = v
	}
	return out, nil
}

func (b *fakeBackend) SetOption(_ context.Context, key, value string) error {
	b.calls = append(b.calls, "set:"+key)
	b.pushes = append(b.pushes, Edit{Key: key, Value: value})
	if b.failSet != nil {
		return b.failSet
	}
	if b.options == nil {
		b.options = hipparchia.Options{}
	}
	b.options[key] = value
	return nil
}

type fakePanel struct {
	backend *fakeBackend
	reloads int
}

func (p *fakePanel) Reload(context.Context) error {
	p.reloads++
	p.backend.calls = append(p.backend.calls, "selections")
	return nil
}

func TestApplyExclusivePairsAlwaysOneActive(t *testing.T) {
	reg := DefaultRegistry()
	s := New(reg, &fakeBackend{}, nil)
	payloads := []map[string]string{
		{},
		{"onehit": "yes", "headwordindexing": "no", "rawinputstyle": "yes", "ldagraph": "yes"},
		{"onehit": "garbage", "indexbyfrequency": "yes", "extendedgraph": ""},
		{"ldagraph2dimensions": "no", "onehit": "yes"},
	}
	if len(reg.Pairs()) != 7 {
		t.Fatalf("expected 7 exclusive pairs, got %d", len(reg.Pairs()))
	}
	for i, payload := range payloads {
		s.Apply(payload)
		for _, p := range reg.Pairs() {
			if p.Yes() == p.No() {
				t.Fatalf("payload %d: pair %s has yes=%v no=%v", i, p.Key, p.Yes(), p.No())
			}
			if !p.Indicators.Present() {
				continue
			}
			on, off := p.Indicators.Shown()
			if on == off {
				t.Fatalf("payload %d: pair %s indicators on=%v off=%v", i, p.Key, on, off)
			}
			if on != p.Yes() {
				t.Fatalf("payload %d: pair %s indicator out of step", i, p.Key)
			}
		}
	}
}

func TestApplyMissingKeyLeavesToggleUnchanged(t *testing.T) {
	reg := DefaultRegistry()
	s := New(reg, &fakeBackend{}, nil)
	s.Apply(map[string]string{"greekcorpus": "yes", "latincorpus": "yes"})

	s.Apply(map[string]string{"latincorpus": "no"})

	grk, _ := reg.Toggle("greekcorpus")
	if !grk.Checked {
		t.Fatalf("expected greekcorpus to stay checked when absent from payload")
	}
	on, off := grk.Indicators.Shown()
	if !on || off {
		t.Fatalf("expected greek indicator to stay active, got on=%v off=%v", on, off)
	}
	lat, _ := reg.Toggle("latincorpus")
	if lat.Checked {
		t.Fatalf("expected latincorpus unchecked")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	reg := DefaultRegistry()
	s := New(reg, &fakeBackend{}, nil)
	payload := map[string]string{
		"spuria":       "no",
		"onehit":       "yes",
		"maxresults":   "500",
		"sortorder":    "provenance",
		"unknownthing": "yes",
	}
	first := s.Apply(payload)
	snapshot := map[string]string{}
	for _, k := range reg.Keys() {
		snapshot[k], _ = reg.Value(k)
	}
	second := s.Apply(payload)
	if first != second || first != 4 {
		t.Fatalf("expected 4 controls applied twice, got %d then %d", first, second)
	}
	for _, k := range reg.Keys() {
		if v, _ := reg.Value(k); v != snapshot[k] {
			t.Fatalf("key %s changed on second apply: %q -> %q", k, snapshot[k], v)
		}
	}
}

func TestApplyRejectsInvalidNumericAndChoice(t *testing.T) {
	reg := DefaultRegistry()
	s := New(reg, &fakeBackend{}, nil)
	s.Apply(map[string]string{"maxresults": "300", "sortorder": "universalid"})
	s.Apply(map[string]string{"maxresults": "lots", "sortorder": "alphabetical"})
	sp, _ := reg.Spinner("maxresults")
	if sp.Value != 300 {
		t.Fatalf("expected maxresults to stay 300, got %d", sp.Value)
	}
	sel, _ := reg.Selector("sortorder")
	if sel.Value != "universalid" {
		t.Fatalf("expected sortorder to stay universalid, got %q", sel.Value)
	}
}

func TestApplyClampsSpinners(t *testing.T) {
	reg := DefaultRegistry()
	s := New(reg, &fakeBackend{}, nil)
	s.Apply(map[string]string{"earliestdate": "-2000", "maxresults": "9999"})
	e, _ := reg.Spinner("earliestdate")
	m, _ := reg.Spinner("maxresults")
	if e.Value != MinDate || m.Value != 2500 {
		t.Fatalf("expected clamped values, got %d and %d", e.Value, m.Value)
	}
}

func TestEditPushesOnlyChangedKey(t *testing.T) {
	backend := &fakeBackend{}
	reg := DefaultRegistry()
	s := New(reg, backend, &fakePanel{backend: backend})

	if err := s.Edit(context.Background(), ToggleEdit("zapvees", true)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(backend.pushes) != 1 || backend.pushes[0] != (Edit{Key: "zapvees", Value: "yes"}) {
		t.Fatalf("unexpected pushes %v", backend.pushes)
	}
	if len(backend.calls) != 1 {
		t.Fatalf("expected no cascade for zapvees, got calls %v", backend.calls)
	}
	tog, _ := reg.Toggle("zapvees")
	if !tog.Checked {
		t.Fatalf("expected optimistic update")
	}
}

func TestEditCascadesForCorpusToggles(t *testing.T) {
	backend := &fakeBackend{options: hipparchia.Options{"latincorpus": "yes", "greekcorpus": "yes"}}
	panel := &fakePanel{backend: backend}
	reg := DefaultRegistry()
	s := New(reg, backend, panel)

	if err := s.Edit(context.Background(), ToggleEdit("greekcorpus", false)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := []string{"set:greekcorpus", "selections", "options"}
	if len(backend.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, backend.calls)
	}
	for i := range want {
		if backend.calls[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, backend.calls)
		}
	}
	lat, _ := reg.Toggle("latincorpus")
	if !lat.Checked {
		t.Fatalf("expected cascade refresh to apply server options")
	}
}

func TestEditDateBoundsKeepOrder(t *testing.T) {
	backend := &fakeBackend{}
	reg := DefaultRegistry()
	s := New(reg, backend, &fakePanel{backend: backend})
	s.Apply(map[string]string{"earliestdate": "-400", "latestdate": "100"})

	if err := s.Edit(context.Background(), NumberEdit("latestdate", -500)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	e, _ := reg.Spinner("earliestdate")
	if e.Value != -500 {
		t.Fatalf("expected earliest moved to -500, got %d", e.Value)
	}
	if len(backend.pushes) != 2 || backend.pushes[1] != (Edit{Key: "earliestdate", Value: "-500"}) {
		t.Fatalf("unexpected pushes %v", backend.pushes)
	}
}

func TestPushFailureIsNotReturned(t *testing.T) {
	backend := &fakeBackend{failSet: errors.New("down")}
	s := New(DefaultRegistry(), backend, nil)
	if err := s.Edit(context.Background(), ChoiceEdit("fontchoice", "Fira")); err != nil {
		t.Fatalf("expected push failure to be swallowed, got %v", err)
	}
	sel, _ := s.Registry().Selector("fontchoice")
	if sel.Value != "Fira" {
		t.Fatalf("expected local value Fira, got %q", sel.Value)
	}
}

// slowBackend delays the pushes named in delays and records arrival order.
type slowBackend struct {
	mu     sync.Mutex
	delays map[Edit]time.Duration
	pushes []Edit
}

func (b *slowBackend) Options(context.Context) (hipparchia.Options, error) {
	return hipparchia.Options{}, nil
}

func (b *slowBackend) SetOption(_ context.Context, key, value string) error {
	e := Edit{Key: key, Value: value}
	time.Sleep(b.delays[e])
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushes = append(b.pushes, e)
	return nil
}

func TestEnqueuedPushesArriveInOrder(t *testing.T) {
	yes, no := ToggleEdit("onehit", true), ToggleEdit("onehit", false)
	backend := &slowBackend{delays: map[Edit]time.Duration{yes: 50 * time.Millisecond}}
	s := New(DefaultRegistry(), backend, nil)
	ctx := context.Background()

	first := s.Enqueue(ctx, []Edit{yes})
	second := s.Enqueue(ctx, []Edit{no})

	var wg sync.WaitGroup
	for _, push := range []func() bool{second, first} {
		wg.Add(1)
		go func(push func() bool) {
			defer wg.Done()
			push()
		}(push)
	}
	wg.Wait()

	if want := []Edit{yes, no}; !slices.Equal(backend.pushes, want) {
		t.Fatalf("expected pushes %v, got %v", want, backend.pushes)
	}
}

func TestEnqueuedPushGivesUpWhenCancelled(t *testing.T) {
	backend := &slowBackend{}
	s := New(DefaultRegistry(), backend, nil)
	_ = s.Enqueue(context.Background(), []Edit{ToggleEdit("onehit", true)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if s.Enqueue(ctx, []Edit{ToggleEdit("onehit", false)})() {
		t.Fatalf("expected a cancelled push to report no cascade")
	}
	if len(backend.pushes) != 0 {
		t.Fatalf("expected nothing pushed, got %v", backend.pushes)
	}
}

func TestStageRejectsBadEdits(t *testing.T) {
	s := New(DefaultRegistry(), &fakeBackend{}, nil)
	bad := []Edit{
		{Key: "nosuchkey", Value: "yes"},
		{Key: "spuria", Value: "maybe"},
		{Key: "onehit", Value: ""},
		{Key: "maxresults", Value: "ten"},
		{Key: "vecmodeler", Value: "bert"},
	}
	for _, e := range bad {
		if _, err := s.Stage(e); err == nil {
			t.Fatalf("expected error for %+v", e)
		}
	}
}

func TestSelectorNextWraps(t *testing.T) {
	sel := &Selector{Key: "nearornot", Choices: []string{"near", "notnear"}, Value: "notnear"}
	if sel.Next() != "near" {
		t.Fatalf("expected wrap to near, got %q", sel.Next())
	}
}

func TestSnapshotOrdersAndFormatsControls(t *testing.T) {
	s := New(DefaultRegistry(), &fakeBackend{}, nil)
	s.Apply(map[string]string{"onehit": "yes", "rawinputstyle": "no", "spuria": "yes", "sortorder": "provenance"})

	snap := s.Registry().Snapshot()
	if len(snap) != len(s.Registry().Keys()) {
		t.Fatalf("expected one entry per key, got %d", len(snap))
	}
	if snap[0].Key != "onehit" || snap[0].Kind != KindPair || snap[0].Display != "yes" {
		t.Fatalf("expected pairs first, got %+v", snap[0])
	}
	byKey := map[string]Entry{}
	for _, e := range snap {
		byKey[e.Key] = e
	}
	if got := byKey["rawinputstyle"].Display; got != "autofill" {
		t.Fatalf("expected pair display label autofill, got %q", got)
	}
	if got := byKey["spuria"]; got.Display != "on" || got.Value != "yes" {
		t.Fatalf("unexpected toggle entry %+v", got)
	}
	if got := byKey["earliestdate"]; got.Min != MinDate || got.Max != MaxDate {
		t.Fatalf("unexpected spinner bounds %+v", got)
	}
	sel := byKey["sortorder"]
	if sel.Value != "provenance" || len(sel.Choices) != 4 {
		t.Fatalf("unexpected selector entry %+v", sel)
	}
	sel.Choices[0] = "mutated"
	if orig, _ := s.Registry().Selector("sortorder"); orig.Choices[0] != "shortname" {
		t.Fatalf("snapshot must not alias registry choices")
	}
}

func TestVectorModeFollowsToggles(t *testing.T) {
	s := New(DefaultRegistry(), &fakeBackend{}, nil)
	reg := s.Registry()
	if got := reg.VectorMode(); got != "" {
		t.Fatalf("expected standard search by default, got %q", got)
	}

	s.Apply(map[string]string{"semanticvectorquery": "yes", "topicmodel": "yes"})
	if got := reg.VectorMode(); got != "" {
		t.Fatalf("expected vector kinds ignored while isvectorsearch is off, got %q", got)
	}

	s.Apply(map[string]string{"isvectorsearch": "yes"})
	if got := reg.VectorMode(); got != "semanticvectorquery" {
		t.Fatalf("expected the first enabled vector kind, got %q", got)
	}

	s.Apply(map[string]string{"semanticvectorquery": "no"})
	if got := reg.VectorMode(); got != "topicmodel" {
		t.Fatalf("expected topicmodel, got %q", got)
	}
}
