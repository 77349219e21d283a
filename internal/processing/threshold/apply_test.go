package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilevel/internal/algorithms/otsu"
	"bilevel/internal/models"
)

func TestApplyStrictlyAbove(t *testing.T) {
	grid := models.PixelGrid{
		{0, 1},
		{100, 255},
	}

	out, err := NewBinaryApplier().Apply(grid, 0)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 1).Y)
}

func TestApplyTopThresholdAllBlack(t *testing.T) {
	grid := models.PixelGrid{{0, 128, 255}}

	out, err := NewBinaryApplier().Apply(grid, 255)
	require.NoError(t, err)

	for x := 0; x < 3; x++ {
		assert.Equal(t, uint8(0), out.GrayAt(x, 0).Y)
	}
}

func TestApplyWithOtsuOnExtremes(t *testing.T) {
	grid := models.PixelGrid{
		{0, 0},
		{255, 255},
	}

	result, err := otsu.NewProcessor().Compute(grid, nil)
	require.NoError(t, err)

	out, err := NewBinaryApplier().Apply(grid, result.Threshold)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), out.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 1).Y)
}

func TestApplyIdempotent(t *testing.T) {
	grid := models.PixelGrid{
		{10, 240, 80},
		{90, 15, 200},
	}

	result, err := otsu.NewProcessor().Compute(grid, nil)
	require.NoError(t, err)

	applier := NewBinaryApplier()
	first, err := applier.Apply(grid, result.Threshold)
	require.NoError(t, err)
	second, err := applier.Apply(grid, result.Threshold)
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
}

func TestApplyEmptyGrid(t *testing.T) {
	_, err := NewBinaryApplier().Apply(models.PixelGrid{}, 128)
	assert.ErrorIs(t, err, models.ErrEmptyGrid)
}
