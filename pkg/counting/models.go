package counting

import (
	"context"
	"errors"
	"math/rand/v2"

	"gonum.org/v1/gonum/graph/simple"
)

// ErrInvalidParameter reports a request that is rejected before any work
// starts (negative sample count, non-positive worker count, and so on).
var ErrInvalidParameter = errors.New("counting: invalid parameter")

// Generator produces one random graph per call. Generated graphs must use
// node IDs 0..n-1 for a fixed vertex count n.
type Generator func() *simple.UndirectedGraph

// GeneratorFactory binds a generator to an explicit random source. Each
// worker owns one source, so concurrent workers never share RNG state.
type GeneratorFactory func(src rand.Source) Generator

// GraphStream yields graphs one at a time and returns nil when exhausted.
type GraphStream func() *simple.UndirectedGraph

// KeyStream is a lazy sequence of canonical keys. After Next returns false,
// Err reports whether the stream ended cleanly. Callers must Close.
type KeyStream interface {
	Next() bool
	Key() string
	Err() error
	Close() error
}

// Canonicalizer reduces a stream of graphs to their canonical keys,
// order-preserving and one key per input graph. The token disambiguates
// temporary artifacts between concurrent callers; two concurrent calls must
// never share a token.
type Canonicalizer interface {
	Canonicalize(ctx context.Context, graphs GraphStream, token string) (KeyStream, error)
}

// ClassEnumerator yields the canonical key of every isomorphism class for a
// vertex count.
type ClassEnumerator interface {
	Classes(ctx context.Context, numVertices int) (KeyStream, error)
}

// Limit caps a generator at n draws, turning it into a GraphStream.
func Limit(gen Generator, n int64) GraphStream {
	var drawn int64
	return func() *simple.UndirectedGraph {
		if drawn >= n {
			return nil
		}
		drawn++
		return gen()
	}
}
