// Package vectorize maps text to fixed-dimension count vectors via feature hashing.
//
// Token i always lands in slot abs(hash(token)) mod D, so vectors produced at
// build time and at query time are directly comparable. There is no vocabulary
// to persist and no learned component.
package vectorize

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/kailas-cloud/chunkdex/internal/domain"
	"github.com/kailas-cloud/chunkdex/internal/domain/vector"
)

// Scheme identifies the hashing layout recorded alongside persisted vectors.
const Scheme = "hash-v1"

// CJK ideograph range recognized as a token run.
const (
	cjkFirst = 0x4E00
	cjkLast  = 0x9FA5
)

var _ domain.Vectorizer = (*Hasher)(nil)

// Hasher is a stateless count-hashing vectorizer.
type Hasher struct {
	dim int
}

// New creates a Hasher producing vectors of the given dimension.
func New(dim int) (*Hasher, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	return &Hasher{dim: dim}, nil
}

// Dimension returns the vector length.
func (h *Hasher) Dimension() int { return h.dim }

// Scheme returns the hashing scheme identifier.
func (h *Hasher) Scheme() string { return Scheme }

// Vectorize returns the L2-normalized token-count vector of text.
// Text without recognized tokens yields the zero vector.
func (h *Hasher) Vectorize(text string) []float32 {
	v := make([]float32, h.dim)
	for _, tok := range Tokenize(text) {
		v[Slot(Hash(tok), h.dim)]++
	}
	vector.Normalize(v)
	return v
}

// Tokenize extracts maximal runs of CJK ideographs and maximal runs of ASCII
// letters. ASCII runs are lowercased. Everything else separates tokens.
func Tokenize(text string) []string {
	var (
		tokens []string
		start  = -1
		class  int // 0 none, 1 cjk, 2 ascii
	)
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := text[start:end]
		if class == 2 {
			tok = strings.ToLower(tok)
		}
		tokens = append(tokens, tok)
		start, class = -1, 0
	}
	for i, r := range text {
		c := classify(r)
		if c != class {
			flush(i)
			if c != 0 {
				start, class = i, c
			}
		}
	}
	flush(len(text))
	return tokens
}

func classify(r rune) int {
	switch {
	case r >= cjkFirst && r <= cjkLast:
		return 1
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return 2
	default:
		return 0
	}
}

// Hash is the 31-multiplier polynomial string hash over UTF-16 code units
// in wrapping 32-bit arithmetic.
func Hash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	return h
}

// Slot maps a hash to a vector index: abs(h) mod dim. The absolute value is
// taken in 64 bits so math.MinInt32 does not stay negative.
func Slot(h int32, dim int) int {
	a := int64(h)
	if a < 0 {
		a = -a
	}
	return int(a % int64(dim))
}
