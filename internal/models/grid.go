package models

import (
	"fmt"
	"image"
)

// MaxIntensity is the top of the 8-bit grayscale intensity domain.
const MaxIntensity = 255

// PixelGrid is a row-major grid of grayscale intensities in [0, 255].
// grid[y][x] addresses the pixel at column x of row y, matching the
// iteration order of image.Gray. The grid is owned by the caller and
// treated as read-only by every solver.
type PixelGrid [][]int

func (g PixelGrid) Height() int { return len(g) }

func (g PixelGrid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate checks the input contract shared by both solvers: the grid
// must be non-empty, rectangular, and every intensity must lie in
// [0, 255].
func (g PixelGrid) Validate() error {
	if g.Height() == 0 || g.Width() == 0 {
		return ErrEmptyGrid
	}

	width := g.Width()
	for y, row := range g {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrRaggedGrid, y, len(row), width)
		}
		for x, v := range row {
			if v < 0 || v > MaxIntensity {
				return fmt.Errorf("%w: %d at (%d, %d)", ErrIntensityRange, v, x, y)
			}
		}
	}

	return nil
}

// GridFromGray extracts a PixelGrid from an 8-bit grayscale image.
func GridFromGray(img *image.Gray) PixelGrid {
	b := img.Bounds()
	grid := make(PixelGrid, b.Dy())

	for y := 0; y < b.Dy(); y++ {
		row := make([]int, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			row[x] = int(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
		grid[y] = row
	}

	return grid
}
