// Package jobid produces the correlation identifiers that tie a submitted job
// to the progress messages the server streams for it.
package jobid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// DefaultLength is the number of hex characters in a generated identifier.
const DefaultLength = 8

// Generator reads entropy from Source and encodes it as lowercase hex.
type Generator struct {
	Source io.Reader
	Length int
}

// New returns a generator reading from r. A nil reader selects crypto/rand.
func New(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{Source: r, Length: DefaultLength}
}

// Next returns a fresh identifier. Uniqueness is probabilistic.
func (g *Generator) Next() (string, error) {
	length := g.Length
	if length <= 0 {
		length = DefaultLength
	}
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	buf := make([]byte, (length+1)/2)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return hex.EncodeToString(buf)[:length], nil
}

// Must is Next for callers that cannot continue without entropy.
func (g *Generator) Must() string {
	id, err := g.Next()
	if err != nil {
		panic(err)
	}
	return id
}
