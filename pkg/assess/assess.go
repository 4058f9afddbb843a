// Package assess scores how close a generated-graph distribution is to
// uniform over all isomorphism classes. The metrics consume a finished,
// zero-filled frequency table and are pure functions.
package assess

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Nico-Salamone/graphgen/pkg/counting"
)

// MDOD computes the mean of deviations with respect to the optimal
// (uniform) distribution. Counts are normalized into a probability mass
// function and each probability's distance to the uniform probability 1/k
// is averaged, where k is the number of classes. The value lies in
// [0, 2/k]; smaller is more uniform. With very large k the value is close
// to 0 regardless of the generator, so compare generators at a fixed
// vertex count.
func MDOD(distr counting.FrequencyTable) float64 {
	devs := deviations(distr)
	if len(devs) == 0 {
		return 0
	}
	return stat.Mean(devs, nil)
}

// SDOD computes the sum of deviations with respect to the optimal (uniform)
// distribution. The value lies in [0, 2]; smaller is more uniform.
func SDOD(distr counting.FrequencyTable) float64 {
	return floats.Sum(deviations(distr))
}

// deviations normalizes the table into a PMF and returns the distance of
// each probability to the uniform probability.
func deviations(distr counting.FrequencyTable) []float64 {
	total := distr.Total()
	if len(distr) == 0 || total == 0 {
		return nil
	}

	uniform := 1 / float64(len(distr))
	devs := make([]float64, 0, len(distr))
	for _, count := range distr {
		p := float64(count) / float64(total)
		dev := p - uniform
		if dev < 0 {
			dev = -dev
		}
		devs = append(devs, dev)
	}
	return devs
}
