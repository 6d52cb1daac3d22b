package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLogistic_SeparatesClasses(t *testing.T) {
	// Positive class sits at large x0, negative at small x0; x1 is noise.
	X := [][]float64{
		{1, 5}, {2, 1}, {1.5, 3}, {2.5, 4},
		{8, 2}, {9, 5}, {8.5, 1}, {9.5, 3},
	}
	y := []float64{0, 0, 0, 0, 1, 1, 1, 1}

	m, err := FitLogistic(X, y)
	require.NoError(t, err)

	low := m.PredictProba([]float64{1.5, 3})
	high := m.PredictProba([]float64{9, 3})

	assert.Less(t, low, 0.5)
	assert.Greater(t, high, 0.5)
	assert.Greater(t, high, low)
}

func TestFitLogistic_ProbabilitiesInRange(t *testing.T) {
	X := [][]float64{{0, 1}, {1, 0}, {2, 2}, {3, 1}}
	y := []float64{0, 0, 1, 1}

	m, err := FitLogistic(X, y)
	require.NoError(t, err)

	for _, x := range X {
		p := m.PredictProba(x)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestFitLogistic_ConstantFeatureTolerated(t *testing.T) {
	// A column imputation left constant must not divide by zero.
	X := [][]float64{{1, 7}, {2, 7}, {8, 7}, {9, 7}}
	y := []float64{0, 0, 1, 1}

	m, err := FitLogistic(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Stds[1])
}

func TestFitLogistic_EmptyData(t *testing.T) {
	_, err := FitLogistic(nil, nil)
	require.Error(t, err)
}

func TestStandardizeStats(t *testing.T) {
	means, stds := standardizeStats([][]float64{{1, 10}, {3, 10}})
	assert.Equal(t, 2.0, means[0])
	assert.Equal(t, 1.0, stds[0])
	assert.Equal(t, 10.0, means[1])
	assert.Equal(t, 1.0, stds[1]) // constant column
}
