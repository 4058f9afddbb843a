// Package edgedist computes the distribution of edge counts over the full
// isomorphism-class universe for a vertex count, and tests how well that
// distribution fits a normal or binomial model. The real distribution is
// expensive to enumerate, so closed-form approximations of its mean and
// standard deviation are also provided for generator use.
package edgedist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/graph/encoding/graph6"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

// ErrDegenerateDistribution reports a distribution with too few usable
// classes for a chi-squared test, or moment estimates outside the tested
// model's parameter space.
var ErrDegenerateDistribution = errors.New("edgedist: degenerate distribution")

// Chi-squared goodness of fit breaks down on small expected classes; classes
// whose expected count falls below this threshold are dropped from the test.
const smallClassThreshold = 5.0

// MaxEdges returns the maximum number of edges of a simple undirected graph
// with numVertices vertices.
func MaxEdges(numVertices int) int {
	return numVertices * (numVertices - 1) / 2
}

// ApproxMean approximates the mean edge count over all isomorphism classes
// with numVertices vertices. It is exactly half the maximum edge count,
// because complementation pairs up the classes.
func ApproxMean(numVertices int) float64 {
	return float64(MaxEdges(numVertices)) / 2
}

// ApproxStdDev approximates the standard deviation of edge counts over all
// isomorphism classes with numVertices vertices. The coefficients come from
// a linear regression against the exact values for 1..16 vertices.
func ApproxStdDev(numVertices int) float64 {
	return 0.3375899521271764*float64(numVertices) + 0.1575828904704868
}

// Counts returns the edge-count distribution of all isomorphism classes with
// numVertices vertices: a map from edge count to the number of classes with
// that many edges. Results are cached as JSON under cacheDir, one file per
// vertex count, populated check-then-write without a lock (a benign race:
// the content is deterministic, so the last writer wins with identical
// data). An empty cacheDir disables caching.
func Counts(ctx context.Context, enum counting.ClassEnumerator, cacheDir string, numVertices int) (map[int]int64, error) {
	var cachePath string
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, fmt.Sprintf("enc_%d.json", numVertices))
		if counts, err := readCache(cachePath); err == nil {
			return counts, nil
		}
	}

	keys, err := enum.Classes(ctx, numVertices)
	if err != nil {
		return nil, err
	}
	defer keys.Close()

	counts := make(map[int]int64)
	for keys.Next() {
		numEdges, err := edgeCount(keys.Key())
		if err != nil {
			return nil, err
		}
		counts[numEdges]++
	}
	if err := keys.Err(); err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := writeCache(cachePath, counts); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// WeightedMeanStdDev computes the mean and population standard deviation of
// a distribution given as value -> count.
func WeightedMeanStdDev(counts map[int]int64) (mean, std float64) {
	values := make([]float64, 0, len(counts))
	weights := make([]float64, 0, len(counts))
	for value, count := range counts {
		values = append(values, float64(value))
		weights = append(weights, float64(count))
	}

	mean = stat.Mean(values, weights)

	var sumSq, sumW float64
	for i, v := range values {
		sumSq += weights[i] * (v - mean) * (v - mean)
		sumW += weights[i]
	}
	std = math.Sqrt(sumSq / sumW)
	return mean, std
}

// NormalityTest performs a chi-squared goodness-of-fit test of the
// edge-count distribution against a normal distribution whose parameters
// are estimated from the distribution itself. Returns the test statistic
// and the p-value.
func NormalityTest(counts map[int]int64) (statistic, pValue float64, err error) {
	mean, std := WeightedMeanStdDev(counts)
	if std == 0 {
		return 0, 0, fmt.Errorf("%w: zero variance", ErrDegenerateDistribution)
	}
	dist := distuv.Normal{Mu: mean, Sigma: std}

	// Discretize the density: P(m) is the normal mass on [m-0.5, m+0.5].
	return chiSquaredFit(counts, func(numEdges int) float64 {
		m := float64(numEdges)
		return dist.CDF(m+0.5) - dist.CDF(m-0.5)
	})
}

// BinomialTest performs a chi-squared goodness-of-fit test of the
// edge-count distribution against a binomial distribution whose parameters
// are recovered from the distribution's moments.
func BinomialTest(counts map[int]int64) (statistic, pValue float64, err error) {
	mean, std := WeightedMeanStdDev(counts)
	variance := std * std
	if mean <= variance {
		return 0, 0, fmt.Errorf("%w: mean %v <= variance %v, not binomial", ErrDegenerateDistribution, mean, variance)
	}
	// The moment estimate of the trial count is rarely integral; the
	// binomial mass function needs an integer.
	trials := math.Round(mean * mean / (mean - variance))
	if trials < 1 {
		return 0, 0, fmt.Errorf("%w: estimated trial count %v", ErrDegenerateDistribution, trials)
	}
	dist := distuv.Binomial{
		N: trials,
		P: 1 - variance/mean,
	}

	return chiSquaredFit(counts, func(numEdges int) float64 {
		return dist.Prob(float64(numEdges))
	})
}

// chiSquaredFit compares observed class counts against the expected counts
// under a probability mass function, dropping classes whose expected count
// is below smallClassThreshold, and returns the chi-squared statistic with
// its p-value for len-1 degrees of freedom.
func chiSquaredFit(counts map[int]int64, pmf func(numEdges int) float64) (float64, float64, error) {
	edgeNums := make([]int, 0, len(counts))
	for numEdges := range counts {
		edgeNums = append(edgeNums, numEdges)
	}
	sort.Ints(edgeNums)

	var total int64
	for _, count := range counts {
		total += count
	}

	var observed, expected []float64
	for _, numEdges := range edgeNums {
		want := float64(total) * pmf(numEdges)
		if math.IsNaN(want) || want < smallClassThreshold {
			continue
		}
		observed = append(observed, float64(counts[numEdges]))
		expected = append(expected, want)
	}
	if len(observed) < 2 {
		return 0, 0, fmt.Errorf("%w: %d usable classes after dropping small expectations", ErrDegenerateDistribution, len(observed))
	}

	var statistic float64
	for i := range observed {
		diff := observed[i] - expected[i]
		statistic += diff * diff / expected[i]
	}
	chi2 := distuv.ChiSquared{K: float64(len(observed) - 1)}
	return statistic, chi2.Survival(statistic), nil
}

// edgeCount decodes a graph6 record and returns its number of edges.
func edgeCount(key string) (int, error) {
	if err := checkGraph6(key); err != nil {
		return 0, err
	}
	g := graph6.Graph(key)
	n := g.Nodes().Len()

	numEdges := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if g.HasEdgeBetween(int64(i), int64(j)) {
				numEdges++
			}
		}
	}
	return numEdges, nil
}

// checkGraph6 validates the length of a short-form graph6 record before it
// is handed to the decoder. Only orders up to 62 appear in practice; the
// long forms are rejected.
func checkGraph6(key string) error {
	if key == "" {
		return fmt.Errorf("edgedist: empty graph6 record")
	}
	if key[0] < 63 || key[0] > 125 {
		return fmt.Errorf("edgedist: unsupported graph6 record %q", key)
	}
	n := int(key[0] - 63)
	want := 1 + (MaxEdges(n)+5)/6
	if len(key) != want {
		return fmt.Errorf("edgedist: graph6 record %q has length %d, want %d", key, len(key), want)
	}
	return nil
}

func readCache(path string) (map[int]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int64)
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func writeCache(path string, counts map[int]int64) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing edge-count cache: %w", err)
	}
	return nil
}
