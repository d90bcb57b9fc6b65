package state

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s, drops combining marks, and maps final sigma to medial
// sigma, so "λογοσ" and "λόγος" compare equal.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.ReplaceAll(strings.ToLower(folded), "ς", "σ")
}

type foldedItem struct {
	label string
	id    string
}

func foldItems(items []menu.Item) ([]foldedItem, []string) {
	keys := make([]foldedItem, len(items))
	labels := make([]string, len(items))
	for i, item := range items {
		keys[i] = foldedItem{label: Fold(item.Label), id: Fold(item.ID)}
		labels[i] = keys[i].label
	}
	return keys, labels
}

// FilterItems keeps the items whose folded label fuzzily matches query, in
// their original order. When no label matches, a plain substring of the
// label or id is accepted instead.
func FilterItems(items []menu.Item, query string) []menu.Item {
	needle := Fold(strings.TrimSpace(query))
	if needle == "" {
		return slices.Clone(items)
	}
	keys, labels := foldItems(items)
	hit := make([]bool, len(items))
	ranks := fuzzy.RankFind(needle, labels)
	for _, rank := range ranks {
		hit[rank.OriginalIndex] = true
	}
	if len(ranks) == 0 {
		for i, key := range keys {
			hit[i] = strings.Contains(key.label, needle) || strings.Contains(key.id, needle)
		}
	}
	kept := make([]menu.Item, 0, len(items))
	for i, item := range items {
		if hit[i] {
			kept = append(kept, item)
		}
	}
	return kept
}

// BestMatchIndex picks the item the cursor should land on for query: an exact
// label or id, then a label prefix, an id prefix, an id substring, a label
// substring, and finally the closest fuzzy label. It returns -1 only for an
// empty list.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	needle := Fold(strings.TrimSpace(query))
	if needle == "" {
		return 0
	}
	keys, labels := foldItems(items)
	tiers := []func(foldedItem) bool{
		func(k foldedItem) bool { return k.label == needle || k.id == needle },
		func(k foldedItem) bool { return strings.HasPrefix(k.label, needle) },
		func(k foldedItem) bool { return strings.HasPrefix(k.id, needle) },
		func(k foldedItem) bool { return strings.Contains(k.id, needle) },
		func(k foldedItem) bool { return strings.Contains(k.label, needle) },
	}
	for _, tier := range tiers {
		if idx := slices.IndexFunc(keys, tier); idx >= 0 {
			return idx
		}
	}
	ranks := fuzzy.RankFind(needle, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := slices.MinFunc(ranks, func(a, b fuzzy.Rank) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.OriginalIndex, b.OriginalIndex))
	})
	return best.OriginalIndex
}
