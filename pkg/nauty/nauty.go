// Package nauty wraps the nauty tool suite (amtog, labelg, geng) behind the
// counting pipeline's oracle interfaces. Each canonicalization batch is a
// three-file relay under a temp directory: an adjacency-matrix text file is
// converted to graph6 with amtog, canonically labeled with labelg, and the
// resulting graph6 lines are streamed back as canonical keys. File names
// embed the caller's worker token, which is the only isolation mechanism
// between concurrent callers.
package nauty

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

var (
	// ErrBackendUnavailable reports that a nauty executable could not be
	// located or started.
	ErrBackendUnavailable = errors.New("nauty: backend unavailable")

	// ErrBackendExecutionFailed reports a nauty tool exiting with a
	// non-zero status.
	ErrBackendExecutionFailed = errors.New("nauty: backend execution failed")

	// ErrMalformedCanonicalForm reports backend output that does not parse
	// into the expected number or shape of graph6 records.
	ErrMalformedCanonicalForm = errors.New("nauty: malformed canonical form")
)

// Protocol stages, used to identify the failing invocation in errors.
const (
	stageConvert      = "convert"
	stageCanonicalize = "canonicalize"
	stageEnumerate    = "enumerate"
)

// Tools invokes the nauty executables. It is stateless apart from the
// directories it is configured with and safe for concurrent use as long as
// concurrent Canonicalize callers supply distinct tokens.
type Tools struct {
	path     string // directory holding the executables; empty resolves via $PATH
	tempDir  string
	useCache bool
	logger   zerolog.Logger
}

// New creates a Tools instance. An empty path resolves the executables
// through $PATH; an empty tempDir falls back to the system temp directory.
func New(path, tempDir string, logger zerolog.Logger) *Tools {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Tools{
		path:     path,
		tempDir:  tempDir,
		useCache: true,
		logger:   logger,
	}
}

// FromConfig creates a Tools instance from a pipeline configuration.
func FromConfig(cfg *counting.Config) *Tools {
	t := New(cfg.NautyPath(), cfg.TempDir(), cfg.CreateLogger())
	t.useCache = cfg.CacheEnabled()
	return t
}

// Canonicalize writes the graph stream to an adjacency text file, converts
// it to graph6, canonically labels it and returns a lazy stream of canonical
// keys, one per input graph in input order. The token disambiguates the
// temporary files; two concurrent callers sharing a token corrupt each
// other's batches.
func (t *Tools) Canonicalize(ctx context.Context, graphs counting.GraphStream, token string) (counting.KeyStream, error) {
	adjPath := filepath.Join(t.tempDir, "graphs"+token+".txt")
	g6Path := filepath.Join(t.tempDir, "graphs"+token+".g6")
	canonPath := filepath.Join(t.tempDir, "canonized_graphs"+token+".g6")

	numGraphs, err := writeAdjacencyFile(adjPath, graphs)
	if err != nil {
		return nil, err
	}
	if err := t.run(ctx, stageConvert, "amtog", "-q", adjPath, g6Path); err != nil {
		return nil, err
	}
	if err := t.run(ctx, stageCanonicalize, "labelg", "-qg", g6Path, canonPath); err != nil {
		return nil, err
	}

	stream, err := openKeyStream(canonPath, numGraphs)
	if err != nil {
		return nil, err
	}

	t.logger.Debug().
		Str("token", token).
		Int64("graphs", numGraphs).
		Msg("Batch canonicalized")

	return stream, nil
}

// Classes streams the canonical key of every isomorphism class for a vertex
// count, enumerated with geng. Results are cached in a per-vertex-count
// file; the cache is populated check-then-write without a lock, which is a
// benign race because the content is deterministic and idempotent to
// overwrite.
func (t *Tools) Classes(ctx context.Context, numVertices int) (counting.KeyStream, error) {
	if numVertices < 1 {
		return nil, fmt.Errorf("%w: num vertices %d must be >= 1", counting.ErrInvalidParameter, numVertices)
	}

	path := filepath.Join(t.tempDir, fmt.Sprintf("all_graphs_n%d.g6", numVertices))
	_, statErr := os.Stat(path)
	if statErr != nil || !t.useCache {
		if err := t.run(ctx, stageEnumerate, "geng", "-ql", strconv.Itoa(numVertices), path); err != nil {
			return nil, err
		}
		t.logger.Info().
			Int("num_vertices", numVertices).
			Str("file", path).
			Msg("Enumerated all classes")
	}

	return openKeyStream(path, -1)
}

// NumClasses counts the isomorphism classes for a vertex count.
func (t *Tools) NumClasses(ctx context.Context, numVertices int) (int64, error) {
	keys, err := t.Classes(ctx, numVertices)
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

// run invokes one nauty tool and classifies the failure modes: a tool that
// cannot be started is ErrBackendUnavailable, a non-zero exit is
// ErrBackendExecutionFailed with the protocol stage named.
func (t *Tools) run(ctx context.Context, stage, tool string, args ...string) error {
	bin := tool
	if t.path != "" {
		bin = filepath.Join(t.path, tool)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s stage: %s exited with status %d: %s",
				ErrBackendExecutionFailed, stage, tool, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("%w: %s stage: %s: %v", ErrBackendUnavailable, stage, tool, err)
	}
	return nil
}
