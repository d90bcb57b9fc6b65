package jobs

import (
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
)

func TestQueryOrderAndOmission(t *testing.T) {
	f := Fields{Term: "arma", Lemma: "uir"}
	if got := f.Query(); got != "skg=arma&lem=uir" {
		t.Fatalf("unexpected query %q", got)
	}
	all := Fields{Term: "a", Proximate: "b", Lemma: "c", ProximateLemma: "d"}
	if got := all.Query(); got != "skg=a&prx=b&lem=c&plm=d" {
		t.Fatalf("unexpected query %q", got)
	}
	if got := (Fields{}).Query(); got != "" {
		t.Fatalf("expected empty query, got %q", got)
	}
}

func TestQueryEncodesTrailingSpace(t *testing.T) {
	cases := map[string]Fields{
		"skg=arma%20":          {Term: "arma "},
		"prx=cano%20":          {Proximate: "cano "},
		"lem=uir%20":           {Lemma: "uir "},
		"plm=arma%20":          {ProximateLemma: "arma "},
		"skg=arma%20uirumque":  {Term: "arma uirumque"},
		"skg=%20arma%20&lem=x": {Term: " arma ", Lemma: "x"},
	}
	for want, fields := range cases {
		if got := fields.Query(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestQueryEscapesReservedCharacters(t *testing.T) {
	got := Fields{Term: "a&b=c"}.Query()
	if got != "skg=a%26b%3Dc" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestRequestTargets(t *testing.T) {
	cases := []struct {
		req   Request
		path  string
		query string
	}{
		{Request{Kind: hipparchia.KindSearch, Fields: Fields{Term: "arma "}}, "/search/standard/abcd1234", "skg=arma%20"},
		{Request{Kind: hipparchia.KindSearch, Vector: "nearestneighborsquery", Fields: Fields{Lemma: "arma"}}, "/vectors/nearestneighborsquery/abcd1234/arma", ""},
		{Request{Kind: hipparchia.KindSearch, Vector: "topicmodel"}, "/vectors/topicmodel/abcd1234/_", ""},
		{Request{Kind: hipparchia.KindIndex}, "/text/index/abcd1234", ""},
		{Request{Kind: hipparchia.KindVocab}, "/text/vocab/abcd1234", ""},
		{Request{Kind: hipparchia.KindText}, "/text/make/_", ""},
		{Request{Kind: hipparchia.KindLexicalLookup, Term: "  "}, "/lex/lookup/nihil", ""},
		{Request{Kind: hipparchia.KindReverseLookup, Term: "arms"}, "/lex/reverselookup/abcd1234/arms", ""},
	}
	for _, tc := range cases {
		path, query, err := tc.req.target("abcd1234")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.req.Kind, err)
		}
		if path != tc.path || query != tc.query {
			t.Fatalf("%s: expected %q?%q, got %q?%q", tc.req.Kind, tc.path, tc.query, path, query)
		}
	}
}

func TestSearchRequiresAField(t *testing.T) {
	if _, _, err := (Request{Kind: hipparchia.KindSearch}).target("abcd1234"); err == nil {
		t.Fatalf("expected error for empty search")
	}
	if _, _, err := (Request{Kind: "vectors"}).target("abcd1234"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
