// Package benchmark evaluates a graph generator across several vertex
// counts: for each vertex count it generates a multiple of the class-universe
// size in samples, computes the zero-filled distribution deterministically
// and applies a set of assessment metrics.
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

// Assessor is a named metric over a finished frequency table.
type Assessor struct {
	Name   string
	Assess func(counting.FrequencyTable) float64
}

// Options configures a benchmark run.
type Options struct {
	// VertexCounts lists the vertex counts to evaluate. Counts above 9
	// enumerate very large class universes and can be slow.
	VertexCounts []int

	// SampleFactor scales the class-universe size into the number of
	// samples: with k classes for a vertex count, SampleFactor*k graphs
	// are generated. Higher is more accurate and slower.
	SampleFactor int64

	// Factory builds the generator factory for a vertex count.
	Factory func(numVertices int) (counting.GeneratorFactory, error)

	// Assessors are the metrics applied to each distribution.
	Assessors []Assessor
}

// Result holds the assessments of one benchmark run. Scores maps an
// assessor name to one score per entry of VertexCounts.
type Result struct {
	RunID        string               `json:"run_id"`
	VertexCounts []int                `json:"vertex_counts"`
	Scores       map[string][]float64 `json:"scores"`
	RuntimeMS    int64                `json:"runtime_ms"`
}

// Run executes the benchmark on the given pipeline. Counting is forced
// deterministic so repeated runs of the same benchmark are comparable.
func Run(ctx context.Context, p *counting.Pipeline, opts Options) (*Result, error) {
	switch {
	case len(opts.VertexCounts) == 0:
		return nil, fmt.Errorf("%w: no vertex counts", counting.ErrInvalidParameter)
	case opts.SampleFactor <= 0:
		return nil, fmt.Errorf("%w: sample factor %d must be > 0", counting.ErrInvalidParameter, opts.SampleFactor)
	case opts.Factory == nil:
		return nil, fmt.Errorf("%w: generator factory constructor is nil", counting.ErrInvalidParameter)
	}

	startTime := time.Now()
	logger := p.Config().CreateLogger()
	p.Config().Set("counting.deterministic", true)

	result := &Result{
		RunID:        uuid.New().String(),
		VertexCounts: opts.VertexCounts,
		Scores:       make(map[string][]float64, len(opts.Assessors)),
	}

	for _, numVertices := range opts.VertexCounts {
		numClasses, err := p.NumClasses(ctx, numVertices)
		if err != nil {
			return nil, fmt.Errorf("benchmark for %d vertices: %w", numVertices, err)
		}
		totalSamples := opts.SampleFactor * numClasses

		logger.Info().
			Str("run_id", result.RunID).
			Int("num_vertices", numVertices).
			Int64("num_classes", numClasses).
			Int64("total_samples", totalSamples).
			Msg("Benchmarking vertex count")

		factory, err := opts.Factory(numVertices)
		if err != nil {
			return nil, fmt.Errorf("benchmark for %d vertices: %w", numVertices, err)
		}
		distr, err := p.GeneratedDistribution(ctx, numVertices, totalSamples, factory)
		if err != nil {
			return nil, fmt.Errorf("benchmark for %d vertices: %w", numVertices, err)
		}

		for _, assessor := range opts.Assessors {
			score := assessor.Assess(distr)
			result.Scores[assessor.Name] = append(result.Scores[assessor.Name], score)

			logger.Info().
				Str("run_id", result.RunID).
				Int("num_vertices", numVertices).
				Str("assessor", assessor.Name).
				Float64("score", score).
				Msg("Assessment")
		}
	}

	result.RuntimeMS = time.Since(startTime).Milliseconds()
	return result, nil
}
