package benchmark

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// maxObservationAge is how stale a benchmark row may be before it is
// discarded. Research feeds publish quarterly, so a generous window.
const maxObservationAge = 180 * 24 * time.Hour

// WeightedGain computes the sample-size-weighted mean productivity gain of a
// set of observations. Returns 0 when nothing is usable.
func WeightedGain(observations []Observation) float64 {
	var totalSamples, weightedGain float64
	valid := 0

	for _, o := range observations {
		if o.SampleSize > 0 && o.ProductivityGain >= 0 {
			totalSamples += float64(o.SampleSize)
			weightedGain += o.ProductivityGain * float64(o.SampleSize)
			valid++
		}
	}

	if valid == 0 || totalSamples <= 0 || math.IsNaN(weightedGain) {
		return 0
	}
	return weightedGain / totalSamples
}

// MedianGain computes the median productivity gain, which is robust against
// a single source reporting outliers.
func MedianGain(observations []Observation) float64 {
	if len(observations) == 0 {
		return 0
	}

	values := make([]float64, 0, len(observations))
	for _, o := range observations {
		if o.SampleSize > 0 {
			values = append(values, o.ProductivityGain)
		}
	}

	if len(values) == 0 {
		return 0
	}

	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// ValidateObservation checks that a benchmark row carries plausible values.
func ValidateObservation(o Observation) error {
	if o.Sector == "" {
		return fmt.Errorf("missing sector")
	}

	if o.ProductivityGain < 0 {
		return fmt.Errorf("negative productivity gain: %f", o.ProductivityGain)
	}

	if o.ProductivityGain > 1.0 {
		return fmt.Errorf("unplausible productivity gain (>100%%): %f", o.ProductivityGain)
	}

	if o.SampleSize <= 0 {
		return fmt.Errorf("invalid sample size: %d", o.SampleSize)
	}

	if o.CollectedAt <= 0 {
		return fmt.Errorf("invalid timestamp: %d", o.CollectedAt)
	}

	maxAge := time.Now().Add(-maxObservationAge).Unix()
	if o.CollectedAt < maxAge {
		return fmt.Errorf("benchmark data too old: %d", o.CollectedAt)
	}

	return nil
}

// FilterOutliers removes observations whose productivity gain falls outside
// 1.5 IQR of the quartiles. With fewer than four rows there is no stable
// quartile estimate and the input is returned unchanged.
func FilterOutliers(observations []Observation) []Observation {
	if len(observations) < 4 {
		return observations
	}

	gains := make([]float64, 0, len(observations))
	for _, o := range observations {
		if o.SampleSize > 0 && o.ProductivityGain >= 0 {
			gains = append(gains, o.ProductivityGain)
		}
	}

	if len(gains) < 4 {
		return observations
	}

	sort.Float64s(gains)
	n := len(gains)

	q1 := gains[n/4]
	q3 := gains[n*3/4]

	iqr := q3 - q1
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	filtered := make([]Observation, 0, len(observations))
	for _, o := range observations {
		if o.ProductivityGain >= lowerBound && o.ProductivityGain <= upperBound {
			filtered = append(filtered, o)
		}
	}

	return filtered
}

// ValidateAndFilter combines per-row validation with outlier detection.
func ValidateAndFilter(observations []Observation) []Observation {
	valid := make([]Observation, 0, len(observations))
	for _, o := range observations {
		if err := ValidateObservation(o); err == nil {
			valid = append(valid, o)
		}
	}
	return FilterOutliers(valid)
}

// SectorGains groups validated observations by sector and reduces each group
// to a sample-size-weighted consensus gain. Sectors covered by fewer than
// minSources distinct research sources are dropped; a single feed must not
// move the parameter tables on its own.
func SectorGains(observations []Observation, minSources int) map[string]float64 {
	bySector := map[string][]Observation{}
	for _, o := range ValidateAndFilter(observations) {
		bySector[o.Sector] = append(bySector[o.Sector], o)
	}

	gains := map[string]float64{}
	for sector, group := range bySector {
		sources := map[string]bool{}
		for _, o := range group {
			sources[o.Source] = true
		}
		if len(sources) < minSources {
			continue
		}
		gains[sector] = WeightedGain(group)
	}

	return gains
}
