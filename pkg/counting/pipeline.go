package counting

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pipeline is the main component that orchestrates graph counting: it
// partitions a sample budget across workers, runs each worker's chunk loop
// through the canonicalizer, and merges the per-worker frequency tables.
type Pipeline struct {
	oracle  Canonicalizer
	classes ClassEnumerator
	config  *Config
	logger  zerolog.Logger
}

// NewPipeline creates a new counting pipeline. The class enumerator may be
// nil when zero-fill is not needed (ComputeCounts only).
func NewPipeline(oracle Canonicalizer, classes ClassEnumerator, config *Config) *Pipeline {
	if config == nil {
		config = NewConfig()
	}
	return &Pipeline{
		oracle:  oracle,
		classes: classes,
		config:  config,
		logger:  config.CreateLogger(),
	}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *Config { return p.config }

// ComputeCounts generates totalSamples graphs from the factory, canonically
// labels them and returns the per-class frequency table. Workers run
// concurrently, each with its own RNG source; when the configuration is
// deterministic, worker i is seeded with i, so the same request always
// yields the same table. A failed worker cancels the others and fails the
// whole call.
func (p *Pipeline) ComputeCounts(ctx context.Context, totalSamples int64, factory GeneratorFactory) (FrequencyTable, error) {
	numWorkers := p.config.NumWorkers()
	chunkSize := p.config.ChunkSize()

	switch {
	case totalSamples < 0:
		return nil, fmt.Errorf("%w: total samples %d is negative", ErrInvalidParameter, totalSamples)
	case numWorkers <= 0:
		return nil, fmt.Errorf("%w: num workers %d must be > 0", ErrInvalidParameter, numWorkers)
	case chunkSize <= 0:
		return nil, fmt.Errorf("%w: chunk size %d must be > 0", ErrInvalidParameter, chunkSize)
	case factory == nil:
		return nil, fmt.Errorf("%w: generator factory is nil", ErrInvalidParameter)
	}

	startTime := time.Now()
	parts := partition(totalSamples, numWorkers)

	p.logger.Info().
		Int64("total_samples", totalSamples).
		Int("num_workers", numWorkers).
		Int64("chunk_size", chunkSize).
		Bool("deterministic", p.config.Deterministic()).
		Msg("Starting count pipeline")

	results := make([]FrequencyTable, numWorkers)
	group, gctx := errgroup.WithContext(ctx)
	for i := range parts {
		i := i
		group.Go(func() error {
			table, err := p.runWorker(gctx, i, parts[i], factory)
			if err != nil {
				return err
			}
			results[i] = table
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	counts := make(FrequencyTable)
	for _, table := range results {
		counts.Merge(table)
	}

	p.logger.Info().
		Int64("total_samples", totalSamples).
		Int("distinct_classes", len(counts)).
		Int64("runtime_ms", time.Since(startTime).Milliseconds()).
		Msg("Count pipeline completed")

	return counts, nil
}

// GeneratedDistribution computes the frequency table for totalSamples draws
// and zero-fills it against the full class universe for numVertices, so the
// key set of the result is exactly that universe.
func (p *Pipeline) GeneratedDistribution(ctx context.Context, numVertices int, totalSamples int64, factory GeneratorFactory) (FrequencyTable, error) {
	if numVertices < 1 {
		return nil, fmt.Errorf("%w: num vertices %d must be >= 1", ErrInvalidParameter, numVertices)
	}
	if p.classes == nil {
		return nil, fmt.Errorf("%w: no class enumerator configured", ErrInvalidParameter)
	}

	counts, err := p.ComputeCounts(ctx, totalSamples, factory)
	if err != nil {
		return nil, err
	}

	keys, err := p.classes.Classes(ctx, numVertices)
	if err != nil {
		return nil, fmt.Errorf("enumerating classes for %d vertices: %w", numVertices, err)
	}
	if err := counts.ZeroFill(keys); err != nil {
		return nil, fmt.Errorf("zero-filling classes for %d vertices: %w", numVertices, err)
	}
	return counts, nil
}

// NumClasses counts the isomorphism classes for a vertex count.
func (p *Pipeline) NumClasses(ctx context.Context, numVertices int) (int64, error) {
	if p.classes == nil {
		return 0, fmt.Errorf("%w: no class enumerator configured", ErrInvalidParameter)
	}
	keys, err := p.classes.Classes(ctx, numVertices)
	if err != nil {
		return 0, err
	}
	defer keys.Close()

	var n int64
	for keys.Next() {
		n++
	}
	if err := keys.Err(); err != nil {
		return 0, err
	}
	return n, nil
}

// runWorker executes one worker's chunk loop: draw a chunk of samples,
// canonicalize it, tally the keys, then move to the next chunk. The RNG is
// seeded once before the first chunk, so the full draw sequence for a
// worker is independent of chunk boundaries.
func (p *Pipeline) runWorker(ctx context.Context, index int, samples int64, factory GeneratorFactory) (FrequencyTable, error) {
	token := strconv.Itoa(index)
	chunkSize := p.config.ChunkSize()

	var src rand.Source
	if p.config.Deterministic() {
		src = rand.NewPCG(uint64(index), uint64(index))
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	gen := factory(src)

	numChunks, remainder := samples/chunkSize, samples%chunkSize
	sizes := make([]int64, 0, numChunks+1)
	for i := int64(0); i < numChunks; i++ {
		sizes = append(sizes, chunkSize)
	}
	if remainder > 0 {
		sizes = append(sizes, remainder)
	}

	counts := make(FrequencyTable)
	for chunk, size := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tallied, err := p.runChunk(ctx, gen, size, token, counts)
		if err != nil {
			return nil, fmt.Errorf("worker %s chunk %d: %w", token, chunk, err)
		}

		p.logger.Debug().
			Str("worker", token).
			Int("chunk", chunk).
			Int64("chunk_samples", tallied).
			Msg("Chunk tallied")
	}
	return counts, nil
}

// runChunk canonicalizes one chunk of graphs and tallies the resulting keys
// into counts. Any oracle error aborts the chunk; no partial tallies are
// kept beyond what the stream already delivered.
func (p *Pipeline) runChunk(ctx context.Context, gen Generator, size int64, token string, counts FrequencyTable) (int64, error) {
	keys, err := p.oracle.Canonicalize(ctx, Limit(gen, size), token)
	if err != nil {
		return 0, err
	}
	defer keys.Close()

	var tallied int64
	for keys.Next() {
		counts.Add(keys.Key())
		tallied++
	}
	if err := keys.Err(); err != nil {
		return tallied, err
	}
	return tallied, nil
}

// partition splits a sample budget across workers. Every worker receives
// total/numWorkers samples; worker 0 additionally absorbs the remainder.
func partition(total int64, numWorkers int) []int64 {
	base := total / int64(numWorkers)
	parts := make([]int64, numWorkers)
	for i := range parts {
		parts[i] = base
	}
	parts[0] += total % int64(numWorkers)
	return parts
}
