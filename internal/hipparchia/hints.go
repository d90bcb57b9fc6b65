package hipparchia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// HintKind names one of the server's autocomplete sources.
type HintKind string

const (
	HintAuthor         HintKind = "author"
	HintLemma          HintKind = "lemmata"
	HintAuthorGenre    HintKind = "authgenre"
	HintWorkGenre      HintKind = "workgenre"
	HintAuthorLocation HintKind = "authlocation"
	HintWorkLocation   HintKind = "worklocation"
)

// MinHintTerm is the shortest term the server completes.
const MinHintTerm = 2

const auxWorksPrefix = "works:"

// ErrNoStructure is returned when the server has no citation structure for
// a locus.
var ErrNoStructure = errors.New("no citation structure")

// WorkLevel describes one citation level of a work: which level it is, its
// label, and the values valid at that level under the requested locus.
type WorkLevel struct {
	Total int      `json:"totallevels"`
	Level int      `json:"level"`
	Label string   `json:"label"`
	Low   string   `json:"low"`
	High  string   `json:"high"`
	Range []string `json:"range"`
}

// Lowest reports whether no citation level lies beneath this one.
func (l WorkLevel) Lowest() bool {
	return l.Level <= 0
}

type hintValue struct {
	Value string `json:"value"`
}

// Hints returns the completions for term from the kind source. Author hints
// only cover the active corpora. Terms shorter than MinHintTerm are not sent.
func (c *Client) Hints(ctx context.Context, kind HintKind, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinHintTerm {
		return nil, nil
	}
	target := c.endpoint("term="+url.QueryEscape(term), "hints", string(kind), "_")
	return c.values(ctx, target)
}

// WorksOf lists an author's works as "Title (wNNN)". Results are cached.
func (c *Client) WorksOf(ctx context.Context, authorID string) ([]string, error) {
	key := auxWorksPrefix + authorID
	if v, ok := c.aux.Get(key); ok {
		return v.([]string), nil
	}
	works, err := c.values(ctx, c.endpoint("", "get/json/worksof", authorID))
	if err != nil {
		return nil, err
	}
	c.aux.SetDefault(key, works)
	return works, nil
}

// WorkStructure returns the citation level beneath locus. locus is
// "<author>/<work>" optionally followed by "/<v1>|<v2>..." for the levels
// already chosen, for example "lt0474/058/1|3".
func (c *Client) WorkStructure(ctx context.Context, locus string) (WorkLevel, error) {
	body, err := c.get(ctx, c.endpoint("", "get/json/workstructure", locus))
	if err != nil {
		return WorkLevel{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return WorkLevel{}, fmt.Errorf("%w for %s", ErrNoStructure, locus)
	}
	var lvl WorkLevel
	if err := json.Unmarshal(body, &lvl); err != nil {
		return WorkLevel{}, fmt.Errorf("decode structure of %s: %w", locus, err)
	}
	return lvl, nil
}

// values decodes a list of {"value": ...} objects. The server answers an
// empty body when it has nothing to offer.
func (c *Client) values(ctx context.Context, target string) ([]string, error) {
	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var raw []hintValue
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.Value)
	}
	return out, nil
}

// SplitHint separates a hint such as "Cicero [lt0474]" or "Satyrica (w001)"
// into its label and the identifier in the trailing brackets. A hint without
// one is returned whole with an empty identifier.
func SplitHint(hint string) (string, string) {
	hint = strings.TrimSpace(hint)
	for _, pair := range [][2]string{{" [", "]"}, {" (", ")"}} {
		if !strings.HasSuffix(hint, pair[1]) {
			continue
		}
		cut := strings.LastIndex(hint, pair[0])
		if cut < 0 {
			continue
		}
		return hint[:cut], hint[cut+len(pair[0]) : len(hint)-len(pair[1])]
	}
	return hint, ""
}
