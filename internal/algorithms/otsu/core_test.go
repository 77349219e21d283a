package otsu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilevel/internal/models"
)

func TestComputeSeparatesExtremes(t *testing.T) {
	grid := models.PixelGrid{
		{0, 0},
		{255, 255},
	}

	result, err := NewProcessor().Compute(grid, nil)
	require.NoError(t, err)

	// Any threshold in [0, 254] maps 0 to black and 255 to white under
	// the strictly-greater-than rule.
	assert.GreaterOrEqual(t, result.Threshold, 0)
	assert.Less(t, result.Threshold, 255)
	assert.Positive(t, result.BetweenClassVariance)
}

func TestComputeTwoPeaksLiesBetween(t *testing.T) {
	grid := models.PixelGrid{
		{50, 50, 50, 50},
		{50, 50, 50, 50},
		{200, 200, 200, 200},
		{200, 200, 200, 200},
	}

	result, err := NewProcessor().Compute(grid, nil)
	require.NoError(t, err)

	assert.Greater(t, result.Threshold, 50)
	assert.Less(t, result.Threshold, 200)
}

func TestComputeUniformImage(t *testing.T) {
	grid := models.PixelGrid{
		{100, 100},
		{100, 100},
	}

	result, err := NewProcessor().Compute(grid, nil)
	require.NoError(t, err)

	// Zero variance everywhere; the first candidate wins the tie.
	assert.Equal(t, 0, result.Threshold)
	assert.GreaterOrEqual(t, result.Threshold, 0)
	assert.LessOrEqual(t, result.Threshold, 255)
}

func TestComputeDominantIntensity(t *testing.T) {
	grid := models.PixelGrid{
		{80, 80},
		{80, 200},
	}

	result, err := NewProcessor().Compute(grid, nil)
	require.NoError(t, err)

	// The dominant value or its immediate neighbor.
	assert.Equal(t, 81, result.Threshold)
}

func TestComputeEmptyGrid(t *testing.T) {
	_, err := NewProcessor().Compute(models.PixelGrid{}, nil)
	assert.ErrorIs(t, err, models.ErrEmptyGrid)
}

func TestComputeOutOfRangeIntensity(t *testing.T) {
	_, err := NewProcessor().Compute(models.PixelGrid{{0, 999}}, nil)
	assert.ErrorIs(t, err, models.ErrIntensityRange)
}

func TestComputeDeterministic(t *testing.T) {
	grid := models.PixelGrid{
		{10, 60, 10, 60},
		{200, 10, 250, 10},
	}

	p := NewProcessor()
	first, err := p.Compute(grid, nil)
	require.NoError(t, err)
	second, err := p.Compute(grid, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Threshold, second.Threshold)
	assert.Equal(t, first.BetweenClassVariance, second.BetweenClassVariance)
}
