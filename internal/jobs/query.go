package jobs

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
)

// Fields are the search form inputs, in the order the server expects them.
type Fields struct {
	Term           string
	Proximate      string
	Lemma          string
	ProximateLemma string
}

const emptyLookup = "nihil"

var errNothingToSearch = errors.New("nothing to search for")

// Query joins the non-empty fields as key=value pairs. Spaces, including a
// trailing one, are written as %20.
func (f Fields) Query() string {
	pairs := []struct{ key, value string }{
		{"skg", f.Term},
		{"prx", f.Proximate},
		{"lem", f.Lemma},
		{"plm", f.ProximateLemma},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+escapeValue(p.value))
	}
	return strings.Join(parts, "&")
}

// Empty reports whether no field carries a value.
func (f Fields) Empty() bool {
	return f.Term == "" && f.Proximate == "" && f.Lemma == "" && f.ProximateLemma == ""
}

func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// Request describes a job before it has an ID. Vector names the vector
// search to run instead of a standard search; it only applies to searches.
type Request struct {
	Kind   hipparchia.Kind
	Fields Fields
	Term   string
	Vector string
}

// target returns the submission path and query for job id.
func (r Request) target(id string) (string, string, error) {
	switch r.Kind {
	case hipparchia.KindSearch:
		if r.Vector != "" {
			return "/vectors/" + r.Vector + "/" + id + "/" + vectorLemma(r.Fields.Lemma), "", nil
		}
		if r.Fields.Empty() {
			return "", "", errNothingToSearch
		}
		return "/search/standard/" + id, r.Fields.Query(), nil
	case hipparchia.KindIndex:
		return "/text/index/" + id, "", nil
	case hipparchia.KindVocab:
		return "/text/vocab/" + id, "", nil
	case hipparchia.KindText:
		return "/text/make/_", "", nil
	case hipparchia.KindLexicalLookup:
		return "/lex/lookup/" + lookupTerm(r.Term), "", nil
	case hipparchia.KindReverseLookup:
		return "/lex/reverselookup/" + id + "/" + lookupTerm(r.Term), "", nil
	}
	return "", "", fmt.Errorf("unsupported job kind %q", r.Kind)
}

func lookupTerm(term string) string {
	if strings.TrimSpace(term) == "" {
		return emptyLookup
	}
	return term
}

// vectorLemma is the lemma segment of a vector search path. Vector searches
// without a lemma run over the whole selection and send "_".
func vectorLemma(lemma string) string {
	if strings.TrimSpace(lemma) == "" {
		return "_"
	}
	return strings.TrimSpace(lemma)
}
