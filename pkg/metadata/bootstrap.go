package metadata

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Interval is a bootstrap confidence interval of a measure
type Interval struct {
	Lower  float64
	Upper  float64
	Mean   float64
	StdDev float64
}

// Mean is the measure most intervals are computed for
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// Bootstrap estimates the confidence interval of measure by resampling values with
// replacement. A nil rng uses a time seeded source.
func Bootstrap(values []float64, measure func([]float64) float64, resamples int,
	confidence float64, rng *rand.Rand) Interval {

	if len(values) == 0 || resamples <= 0 {
		return Interval{}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	estimates := make([]float64, 0, resamples)
	sample := make([]float64, len(values))
	for i := 0; i < resamples; i++ {
		for j := range sample {
			sample[j] = values[rng.Intn(len(values))]
		}
		estimates = append(estimates, measure(sample))
	}

	sort.Float64s(estimates)
	tail := (1 - confidence) / 2
	mean, stdDev := stat.MeanStdDev(estimates, nil)
	return Interval{
		Lower:  stat.Quantile(tail, stat.LinInterp, estimates, nil),
		Upper:  stat.Quantile(1-tail, stat.LinInterp, estimates, nil),
		Mean:   mean,
		StdDev: stdDev,
	}
}
