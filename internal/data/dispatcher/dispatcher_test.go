package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/backend"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/session"
	"github.com/atomicstack/hipparchia-console/internal/state"
)

func TestHandleOptionsAppliesToRegistry(t *testing.T) {
	reg := session.DefaultRegistry()
	sync := session.New(reg, nil, nil)
	d := New(sync, state.NewSelectionStore())

	res := d.Handle(backend.Event{Kind: backend.KindOptions, Data: hipparchia.Options{"onehit": "yes", "maxresults": "50"}})
	if !res.OptionsUpdated || res.Applied != 2 {
		t.Fatalf("unexpected result %#v", res)
	}
	if v, _ := reg.Value("maxresults"); v != "50" {
		t.Fatalf("expected maxresults 50, got %s", v)
	}
}

func TestHandleSelectionsStoresSummary(t *testing.T) {
	store := state.NewSelectionStore()
	d := New(nil, store)
	sel := hipparchia.Selections{
		Selections: `<span id="auselections_00">Homer</span>`,
		Script:     `$( '#auselections_00' ).dblclick( function() { $.getJSON('/selection/clear/auselections/0', function(){}); });`,
		Count:      1,
	}
	res := d.Handle(backend.Event{Kind: backend.KindSelections, Data: sel})
	if !res.SelectionsUpdated || res.OptionsUpdated {
		t.Fatalf("unexpected result %#v", res)
	}
	if store.Summary().Count != 1 || store.Version() != 1 {
		t.Fatalf("expected stored summary, got %#v", store.Summary())
	}
	links := store.Links()
	if len(links) != 1 || links[0].Target != "/selection/clear/auselections/0" {
		t.Fatalf("expected deselect link, got %#v", links)
	}
}

func TestHandleErrorLeavesStoresUnchanged(t *testing.T) {
	store := state.NewSelectionStore()
	d := New(nil, store)
	res := d.Handle(backend.Event{Kind: backend.KindSelections, Err: errors.New("offline")})
	if res.SelectionsUpdated || store.Version() != 0 {
		t.Fatalf("expected no update, got %#v", res)
	}
}

func TestHandleIgnoresMismatchedData(t *testing.T) {
	d := New(nil, state.NewSelectionStore())
	res := d.Handle(backend.Event{Kind: backend.KindOptions, Data: "nope"})
	if res.OptionsUpdated {
		t.Fatalf("expected mismatched payload to be ignored")
	}
}
