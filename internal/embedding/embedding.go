// Package embedding turns text into fixed-length vectors.
//
// The pipeline and the search engine depend only on the Embedder interface;
// the Ollama client in this package is the production implementation and
// tests substitute a deterministic fake. Implementations must return the
// same vector for the same text so that re-indexing is idempotent.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyVector is returned when the backend produces no values.
	ErrEmptyVector = errors.New("embedding backend returned an empty vector")
	// ErrDimensionMismatch is returned when a vector has the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder converts one text into a vector of Dimension() values.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// BatchEmbedder is implemented by backends that accept many texts per call.
// The returned slice is aligned with texts.
type BatchEmbedder interface {
	Embedder
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Batch embeds texts and returns vectors aligned with them. Backends that
// implement BatchEmbedder receive the texts split into at most workers
// contiguous chunks, one call per chunk; others are called once per text.
// Either way at most workers calls are in flight. The first failure cancels
// the rest and is returned; no partial result is returned.
func Batch(ctx context.Context, e Embedder, texts []string, workers int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}

	if be, ok := e.(BatchEmbedder); ok {
		return batchChunks(ctx, be, texts, workers)
	}

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		g.Go(func() error {
			v, err := e.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed item %d: %w", i, err)
			}
			if err := Check(v, e.Dimension()); err != nil {
				return fmt.Errorf("embed item %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func batchChunks(ctx context.Context, be BatchEmbedder, texts []string, workers int) ([][]float32, error) {
	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for _, span := range chunks(len(texts), workers) {
		lo, hi := span[0], span[1]
		g.Go(func() error {
			vecs, err := be.EmbedBatch(gctx, texts[lo:hi])
			if err != nil {
				return err
			}
			if len(vecs) != hi-lo {
				return fmt.Errorf("embed batch: got %d vectors for %d texts", len(vecs), hi-lo)
			}
			for i, v := range vecs {
				if err := Check(v, be.Dimension()); err != nil {
					return fmt.Errorf("embed batch item %d: %w", lo+i, err)
				}
				out[lo+i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// chunks splits n items into at most parts contiguous [lo, hi) spans whose
// sizes differ by at most one.
func chunks(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	parts = max(1, min(parts, n))
	spans := make([][2]int, 0, parts)
	size, rem := n/parts, n%parts
	lo := 0
	for i := range parts {
		hi := lo + size
		if i < rem {
			hi++
		}
		spans = append(spans, [2]int{lo, hi})
		lo = hi
	}
	return spans
}

// Check verifies that v is non-empty and, when dim > 0, has dim values.
func Check(v []float32, dim int) error {
	if len(v) == 0 {
		return ErrEmptyVector
	}
	if dim > 0 && len(v) != dim {
		return fmt.Errorf("%w: want %d, got %d", ErrDimensionMismatch, dim, len(v))
	}
	return nil
}

// Normalize scales v to unit length in place and returns it. A zero vector
// is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// CosineSimilarity returns 1 - cosine distance between a and b. Vectors of
// different length, or a zero vector, score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
