package models

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsRectangularGrid(t *testing.T) {
	grid := PixelGrid{
		{0, 128, 255},
		{10, 20, 30},
	}

	require.NoError(t, grid.Validate())
	assert.Equal(t, 3, grid.Width())
	assert.Equal(t, 2, grid.Height())
}

func TestValidateRejectsEmptyGrid(t *testing.T) {
	assert.ErrorIs(t, PixelGrid{}.Validate(), ErrEmptyGrid)
	assert.ErrorIs(t, PixelGrid{{}}.Validate(), ErrEmptyGrid)
}

func TestValidateRejectsRaggedGrid(t *testing.T) {
	grid := PixelGrid{
		{1, 2, 3},
		{4, 5},
	}

	assert.ErrorIs(t, grid.Validate(), ErrRaggedGrid)
}

func TestValidateRejectsOutOfRangeIntensity(t *testing.T) {
	assert.ErrorIs(t, PixelGrid{{0, 300}}.Validate(), ErrIntensityRange)
	assert.ErrorIs(t, PixelGrid{{-1, 0}}.Validate(), ErrIntensityRange)
}

func TestGridFromGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*10 + y)})
		}
	}

	grid := GridFromGray(img)

	require.NoError(t, grid.Validate())
	assert.Equal(t, 3, grid.Width())
	assert.Equal(t, 2, grid.Height())
	assert.Equal(t, 0, grid[0][0])
	assert.Equal(t, 21, grid[1][2])
}

func TestGridFromGrayNonZeroOrigin(t *testing.T) {
	img := image.NewGray(image.Rect(5, 7, 8, 9))
	img.SetGray(5, 7, color.Gray{Y: 42})

	grid := GridFromGray(img)

	assert.Equal(t, 3, grid.Width())
	assert.Equal(t, 2, grid.Height())
	assert.Equal(t, 42, grid[0][0])
}
