package profiling

import (
	"math"

	"powerplants/domain/plant"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// DistributionAnalyzer summarizes a numeric column
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Profile computes count, sum, extremes, mean, median, quartiles and the
// population standard deviation. NaN values are skipped.
func (da *DistributionAnalyzer) Profile(metric string, values []float64) (plant.MetricProfile, error) {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}

	profile := plant.MetricProfile{Metric: metric, Count: len(data)}
	if len(data) == 0 {
		return profile, stats.ErrEmptyInput
	}

	var err error
	var min, max, mean, median, q25, q75, stdDev float64
	if min, err = stats.Min(data); err != nil {
		return profile, err
	}
	if max, err = stats.Max(data); err != nil {
		return profile, err
	}
	if mean, err = stats.Mean(data); err != nil {
		return profile, err
	}
	if median, err = stats.Median(data); err != nil {
		return profile, err
	}

	// Quartiles
	if q25, err = stats.PercentileNearestRank(data, 25); err != nil {
		return profile, err
	}
	if q75, err = stats.PercentileNearestRank(data, 75); err != nil {
		return profile, err
	}
	if stdDev, err = stats.StandardDeviationPopulation(data); err != nil {
		return profile, err
	}

	profile.Sum = plant.Number(floats.Sum(data))
	profile.Min = plant.Number(min)
	profile.Max = plant.Number(max)
	profile.Mean = plant.Number(mean)
	profile.Median = plant.Number(median)
	profile.P25 = plant.Number(q25)
	profile.P75 = plant.Number(q75)
	profile.StdDev = plant.Number(stdDev)
	return profile, nil
}
