package edgedist

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

type fakeEnumerator struct {
	keys []string
	err  error
}

func (f *fakeEnumerator) Classes(ctx context.Context, numVertices int) (counting.KeyStream, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sliceKeyStream{keys: f.keys}, nil
}

type sliceKeyStream struct {
	keys []string
	next int
	key  string
}

func (s *sliceKeyStream) Next() bool {
	if s.next >= len(s.keys) {
		return false
	}
	s.key = s.keys[s.next]
	s.next++
	return true
}

func (s *sliceKeyStream) Key() string  { return s.key }
func (s *sliceKeyStream) Err() error   { return nil }
func (s *sliceKeyStream) Close() error { return nil }

func TestMaxEdges(t *testing.T) {
	tests := []struct {
		numVertices int
		want        int
	}{
		{1, 0},
		{2, 1},
		{4, 6},
		{10, 45},
	}
	for _, tt := range tests {
		if got := MaxEdges(tt.numVertices); got != tt.want {
			t.Errorf("MaxEdges(%d) = %d, want %d", tt.numVertices, got, tt.want)
		}
	}
}

func TestApproximations(t *testing.T) {
	if got := ApproxMean(4); got != 3 {
		t.Errorf("ApproxMean(4) = %v, want 3", got)
	}
	if got := ApproxMean(8); got != 14 {
		t.Errorf("ApproxMean(8) = %v, want 14", got)
	}

	want := 0.3375899521271764*8 + 0.1575828904704868
	if got := ApproxStdDev(8); math.Abs(got-want) > 1e-12 {
		t.Errorf("ApproxStdDev(8) = %v, want %v", got, want)
	}
}

func TestWeightedMeanStdDev(t *testing.T) {
	// Two values at distance 1 from the mean with equal weight.
	mean, std := WeightedMeanStdDev(map[int]int64{1: 2, 3: 2})
	if mean != 2 {
		t.Errorf("mean = %v, want 2", mean)
	}
	if std != 1 {
		t.Errorf("std = %v, want 1", std)
	}

	// Weights shift the mean toward the heavier value.
	mean, _ = WeightedMeanStdDev(map[int]int64{0: 3, 4: 1})
	if mean != 1 {
		t.Errorf("weighted mean = %v, want 1", mean)
	}
}

func TestCountsDecodesGraph6(t *testing.T) {
	// The four isomorphism classes on three vertices, one per edge count.
	enum := &fakeEnumerator{keys: []string{"B?", "B_", "Bo", "Bw"}}

	counts, err := Counts(context.Background(), enum, "", 3)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}

	want := map[int]int64{0: 1, 1: 1, 2: 1, 3: 1}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("Counts = %v, want %v", counts, want)
	}
}

func TestCountsRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"Empty", []string{""}},
		{"WrongLength", []string{"B?extra"}},
		{"NotGraph6", []string{"\x01\x02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Counts(context.Background(), &fakeEnumerator{keys: tt.keys}, "", 3); err == nil {
				t.Error("Counts accepted a malformed record")
			}
		})
	}
}

func TestCountsCacheRoundTrip(t *testing.T) {
	cacheDir := t.TempDir()
	enum := &fakeEnumerator{keys: []string{"B?", "B_", "Bo", "Bw"}}

	first, err := Counts(context.Background(), enum, cacheDir, 3)
	if err != nil {
		t.Fatalf("Counts (populate): %v", err)
	}

	// The enumerator now fails; the cached file must serve the request.
	broken := &fakeEnumerator{err: errors.New("enumerator down")}
	second, err := Counts(context.Background(), broken, cacheDir, 3)
	if err != nil {
		t.Fatalf("Counts (cached): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached counts %v differ from computed %v", second, first)
	}
}

func TestNormalityTest(t *testing.T) {
	// A symmetric bell-shaped distribution with a large total.
	counts := map[int]int64{3: 10, 4: 40, 5: 100, 6: 40, 7: 10}

	statistic, pValue, err := NormalityTest(counts)
	if err != nil {
		t.Fatalf("NormalityTest: %v", err)
	}
	if statistic < 0 {
		t.Errorf("statistic = %v, want >= 0", statistic)
	}
	if pValue < 0 || pValue > 1 {
		t.Errorf("p-value = %v, want [0, 1]", pValue)
	}
}

func TestNormalityTestZeroVariance(t *testing.T) {
	if _, _, err := NormalityTest(map[int]int64{5: 100}); !errors.Is(err, ErrDegenerateDistribution) {
		t.Errorf("error = %v, want ErrDegenerateDistribution", err)
	}
}

func TestBinomialTest(t *testing.T) {
	counts := map[int]int64{3: 10, 4: 40, 5: 100, 6: 40, 7: 10}

	statistic, pValue, err := BinomialTest(counts)
	if err != nil {
		t.Fatalf("BinomialTest: %v", err)
	}
	if statistic < 0 || math.IsNaN(statistic) {
		t.Errorf("statistic = %v, want finite >= 0", statistic)
	}
	if pValue < 0 || pValue > 1 {
		t.Errorf("p-value = %v, want [0, 1]", pValue)
	}
}

func TestBinomialTestOverdispersed(t *testing.T) {
	// Variance far above the mean cannot come from a binomial.
	counts := map[int]int64{0: 50, 10: 50}
	if _, _, err := BinomialTest(counts); !errors.Is(err, ErrDegenerateDistribution) {
		t.Errorf("error = %v, want ErrDegenerateDistribution", err)
	}
}
