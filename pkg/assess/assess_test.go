package assess

import (
	"math"
	"testing"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

func TestMDODExactValue(t *testing.T) {
	// PMF is {0.75, 0.25}; uniform probability is 0.5; both deviations are
	// 0.25.
	distr := counting.FrequencyTable{"g1": 3, "g2": 1}

	if got := MDOD(distr); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("MDOD = %v, want 0.25", got)
	}
	if got := SDOD(distr); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("SDOD = %v, want 0.5", got)
	}
}

func TestUniformDistributionScoresZero(t *testing.T) {
	distr := counting.FrequencyTable{"g1": 10, "g2": 10, "g3": 10, "g4": 10}

	if got := MDOD(distr); got != 0 {
		t.Errorf("MDOD of uniform distribution = %v, want 0", got)
	}
	if got := SDOD(distr); got != 0 {
		t.Errorf("SDOD of uniform distribution = %v, want 0", got)
	}
}

func TestSkewedDistributionScoresHigher(t *testing.T) {
	nearUniform := counting.FrequencyTable{
		"g1": 12, "g2": 8, "g3": 11, "g4": 9, "g5": 12,
		"g6": 10, "g7": 8, "g8": 10, "g9": 11, "g10": 9,
	}
	skewed := counting.FrequencyTable{
		"g1": 100000, "g2": 1, "g3": 1, "g4": 1, "g5": 1,
		"g6": 1, "g7": 1, "g8": 1, "g9": 1, "g10": 1,
	}

	if MDOD(skewed) <= MDOD(nearUniform) {
		t.Errorf("MDOD: skewed %v <= near-uniform %v", MDOD(skewed), MDOD(nearUniform))
	}
	if SDOD(skewed) <= SDOD(nearUniform) {
		t.Errorf("SDOD: skewed %v <= near-uniform %v", SDOD(skewed), SDOD(nearUniform))
	}

	// SDOD is bounded by 2; the extreme case approaches it.
	if got := SDOD(skewed); got <= 1 || got > 2 {
		t.Errorf("SDOD of extreme case = %v, want in (1, 2]", got)
	}
}

func TestEmptyAndZeroTables(t *testing.T) {
	if got := MDOD(counting.FrequencyTable{}); got != 0 {
		t.Errorf("MDOD of empty table = %v, want 0", got)
	}
	if got := SDOD(counting.FrequencyTable{"g1": 0, "g2": 0}); got != 0 {
		t.Errorf("SDOD of all-zero table = %v, want 0", got)
	}
}
