package hipparchia

import (
	"fmt"
	"strings"
)

// Kind names a class of server-side job.
type Kind string

const (
	KindSearch        Kind = "search"
	KindIndex         Kind = "index"
	KindVocab         Kind = "vocab"
	KindLexicalLookup Kind = "lexical-lookup"
	KindReverseLookup Kind = "lexical-reverse-lookup"
	KindText          Kind = "text"
)

// Kinds lists every job kind in display order.
func Kinds() []Kind {
	return []Kind{KindSearch, KindIndex, KindVocab, KindLexicalLookup, KindReverseLookup, KindText}
}

// ParseKind resolves a kind from its name. "lookup" and "reverse" are
// accepted as shorthands.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "search":
		return KindSearch, nil
	case "index":
		return KindIndex, nil
	case "vocab":
		return KindVocab, nil
	case "lexical-lookup", "lookup":
		return KindLexicalLookup, nil
	case "lexical-reverse-lookup", "reverse":
		return KindReverseLookup, nil
	case "text":
		return KindText, nil
	}
	return "", fmt.Errorf("unknown job kind %q", name)
}
