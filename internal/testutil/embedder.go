// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"
)

// ErrEmbedFailed is returned by HashEmbedder when FailOn matches.
var ErrEmbedFailed = errors.New("fake embed failure")

// HashEmbedder is a deterministic bag-of-words embedder: every lower-cased
// word is hashed into one of Dim buckets and the result is normalised. Texts
// sharing words score higher cosine similarity.
type HashEmbedder struct {
	Dim int
	// FailOn makes Embed fail for any text containing this substring.
	FailOn string

	mu    sync.Mutex
	calls int
}

// NewHashEmbedder returns a HashEmbedder producing dim-length vectors.
func NewHashEmbedder(dim int) *HashEmbedder {
	return &HashEmbedder{Dim: dim}
}

// Dimension implements embedding.Embedder.
func (h *HashEmbedder) Dimension() int { return h.Dim }

// Calls returns how many texts have been embedded.
func (h *HashEmbedder) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// Embed implements embedding.Embedder.
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()

	if h.FailOn != "" && strings.Contains(text, h.FailOn) {
		return nil, ErrEmbedFailed
	}
	return HashVector(text, h.Dim), nil
}

// HashVector is the vector HashEmbedder produces for text.
func HashVector(text string, dim int) []float32 {
	v := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		f := fnv.New32a()
		f.Write([]byte(w))
		v[int(f.Sum32())%dim]++
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}
