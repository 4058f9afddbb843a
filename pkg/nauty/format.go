package nauty

import (
	"bufio"
	"fmt"
	"os"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

// writeAdjacencyFile serializes a graph stream into the textual adjacency
// format read by amtog: for each graph a "n=<k>" header followed by k rows
// of k '0'/'1' characters, graphs separated by a blank line. Returns the
// number of graphs written.
func writeAdjacencyFile(path string, graphs counting.GraphStream) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("writing adjacency file: %w", err)
	}
	w := bufio.NewWriter(f)

	var numGraphs int64
	for g := graphs(); g != nil; g = graphs() {
		if err := writeAdjacency(w, g); err != nil {
			f.Close()
			return 0, err
		}
		numGraphs++
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("writing adjacency file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("writing adjacency file: %w", err)
	}
	return numGraphs, nil
}

func writeAdjacency(w *bufio.Writer, g *simple.UndirectedGraph) error {
	n := g.Nodes().Len()
	if _, err := fmt.Fprintf(w, "n=%d\n", n); err != nil {
		return err
	}
	row := make([]byte, n+1)
	row[n] = '\n'
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && g.HasEdgeBetween(int64(i), int64(j)) {
				row[j] = '1'
			} else {
				row[j] = '0'
			}
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// keyStream decodes a graph6 output file lazily, one record per line. When
// expect is non-negative the stream fails with ErrMalformedCanonicalForm
// unless it delivers exactly that many records.
type keyStream struct {
	f       *os.File
	scanner *bufio.Scanner
	expect  int64
	seen    int64
	key     string
	err     error
}

func openKeyStream(path string, expect int64) (*keyStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening output %s: %v", ErrMalformedCanonicalForm, path, err)
	}
	return &keyStream{
		f:       f,
		scanner: bufio.NewScanner(f),
		expect:  expect,
	}, nil
}

func (s *keyStream) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			s.err = fmt.Errorf("%w: reading output: %v", ErrMalformedCanonicalForm, err)
		} else if s.expect >= 0 && s.seen != s.expect {
			s.err = fmt.Errorf("%w: got %d records, want %d", ErrMalformedCanonicalForm, s.seen, s.expect)
		}
		return false
	}

	line := s.scanner.Text()
	if !validGraph6(line) {
		s.err = fmt.Errorf("%w: bad record %q at line %d", ErrMalformedCanonicalForm, line, s.seen+1)
		return false
	}
	s.seen++
	if s.expect >= 0 && s.seen > s.expect {
		s.err = fmt.Errorf("%w: got more than %d records", ErrMalformedCanonicalForm, s.expect)
		return false
	}
	s.key = line
	return true
}

func (s *keyStream) Key() string { return s.key }

func (s *keyStream) Err() error { return s.err }

func (s *keyStream) Close() error { return s.f.Close() }

// validGraph6 checks that a line is a plausible graph6 record: non-empty and
// restricted to the graph6 character range 63..126.
func validGraph6(line string) bool {
	if line == "" {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] < 63 || line[i] > 126 {
			return false
		}
	}
	return true
}
