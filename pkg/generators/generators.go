// Package generators provides random-graph generators for a fixed vertex
// count: a naive edge-pick model and the classic G(n,m) and G(n,p) models.
// Every generator draws exclusively from the random source supplied by the
// counting pipeline, so workers never share RNG state.
package generators

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/graph/graphs/gen"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
	"github.com/Nico-Salamone/graphgen/pkg/edgedist"
)

type edgeCountMode int

const (
	modeFixed edgeCountMode = iota
	modeUniform
	modeNormal
)

// EdgeCount selects how an edge-count generator draws the number of edges
// for each sample.
type EdgeCount struct {
	mode edgeCountMode
	m    int
}

// FixedEdges always uses exactly m edges.
func FixedEdges(m int) EdgeCount {
	return EdgeCount{mode: modeFixed, m: m}
}

// UniformEdges draws the edge count uniformly from [0, n(n-1)/2].
func UniformEdges() EdgeCount {
	return EdgeCount{mode: modeUniform}
}

// NormalEdges draws the edge count from a normal distribution fitted to the
// real edge-count distribution of all isomorphism classes, rounded and
// clamped to [0, n(n-1)/2]. This matches the true class universe better
// than a uniform draw.
func NormalEdges() EdgeCount {
	return EdgeCount{mode: modeNormal}
}

func (ec EdgeCount) validate(numVertices int) error {
	if ec.mode == modeFixed {
		if max := edgedist.MaxEdges(numVertices); ec.m < 0 || ec.m > max {
			return fmt.Errorf("%w: num edges %d must be in [0, %d]", counting.ErrInvalidParameter, ec.m, max)
		}
	}
	return nil
}

// draw picks the edge count for one sample.
func (ec EdgeCount) draw(numVertices int, rng *rand.Rand, src rand.Source) int {
	switch ec.mode {
	case modeUniform:
		return rng.IntN(edgedist.MaxEdges(numVertices) + 1)
	case modeNormal:
		dist := distuv.Normal{
			Mu:    edgedist.ApproxMean(numVertices),
			Sigma: edgedist.ApproxStdDev(numVertices),
			Src:   src,
		}
		m := int(math.Round(dist.Rand()))
		if m < 0 {
			m = 0
		} else if max := edgedist.MaxEdges(numVertices); m > max {
			m = max
		}
		return m
	default:
		return ec.m
	}
}

// Naive generates a graph by shuffling the list of all vertex pairs and
// keeping the first m as edges.
func Naive(numVertices int, ec EdgeCount) (counting.GeneratorFactory, error) {
	if numVertices < 1 {
		return nil, fmt.Errorf("%w: num vertices %d must be >= 1", counting.ErrInvalidParameter, numVertices)
	}
	if err := ec.validate(numVertices); err != nil {
		return nil, err
	}

	return func(src rand.Source) counting.Generator {
		rng := rand.New(src)
		pairs := allPairs(numVertices)
		return func() *simple.UndirectedGraph {
			m := ec.draw(numVertices, rng, src)
			rng.Shuffle(len(pairs), func(i, j int) {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			})

			g := newGraph(numVertices)
			for _, pair := range pairs[:m] {
				g.SetEdge(simple.Edge{F: simple.Node(pair[0]), T: simple.Node(pair[1])})
			}
			return g
		}
	}, nil
}

// GNM generates G(n,m) random graphs: m edges chosen uniformly among all
// graphs with numVertices vertices and m edges.
func GNM(numVertices int, ec EdgeCount) (counting.GeneratorFactory, error) {
	if numVertices < 1 {
		return nil, fmt.Errorf("%w: num vertices %d must be >= 1", counting.ErrInvalidParameter, numVertices)
	}
	if err := ec.validate(numVertices); err != nil {
		return nil, err
	}

	return func(src rand.Source) counting.Generator {
		rng := rand.New(src)
		return func() *simple.UndirectedGraph {
			m := ec.draw(numVertices, rng, src)
			g := simple.NewUndirectedGraph()
			if err := gen.Gnm(g, numVertices, m, src); err != nil {
				// Unreachable: m is validated or clamped to [0, maxEdges].
				panic(err)
			}
			return g
		}
	}, nil
}

// GNP generates G(n,p) random graphs: every edge present independently with
// probability p.
func GNP(numVertices int, p float64) (counting.GeneratorFactory, error) {
	if numVertices < 1 {
		return nil, fmt.Errorf("%w: num vertices %d must be >= 1", counting.ErrInvalidParameter, numVertices)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: edge probability %v must be in [0, 1]", counting.ErrInvalidParameter, p)
	}

	return func(src rand.Source) counting.Generator {
		return func() *simple.UndirectedGraph {
			g := simple.NewUndirectedGraph()
			if err := gen.Gnp(g, numVertices, p, src); err != nil {
				// Unreachable: p is validated to [0, 1].
				panic(err)
			}
			return g
		}
	}, nil
}

func newGraph(numVertices int) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < numVertices; i++ {
		g.AddNode(simple.Node(i))
	}
	return g
}

func allPairs(numVertices int) [][2]int {
	pairs := make([][2]int, 0, edgedist.MaxEdges(numVertices))
	for i := 0; i < numVertices; i++ {
		for j := i + 1; j < numVertices; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}
