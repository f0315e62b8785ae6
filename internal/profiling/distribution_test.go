package profiling

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	da := NewDistributionAnalyzer()

	profile, err := da.Profile("gen", []float64{4, 1, 3, 2, math.NaN()})
	require.NoError(t, err)

	assert.Equal(t, "gen", profile.Metric)
	assert.Equal(t, 4, profile.Count)
	assert.Equal(t, 10.0, float64(profile.Sum))
	assert.Equal(t, 1.0, float64(profile.Min))
	assert.Equal(t, 4.0, float64(profile.Max))
	assert.Equal(t, 2.5, float64(profile.Mean))
	assert.Equal(t, 2.5, float64(profile.Median))
	assert.Equal(t, 1.0, float64(profile.P25))
	assert.Equal(t, 3.0, float64(profile.P75))
	assert.InDelta(t, math.Sqrt(1.25), float64(profile.StdDev), 1e-12)
}

func TestProfileEmpty(t *testing.T) {
	profile, err := NewDistributionAnalyzer().Profile("gen", []float64{math.NaN()})
	assert.ErrorIs(t, err, stats.ErrEmptyInput)
	assert.Zero(t, profile.Count)
}
