package histogram

import (
	"bilevel/internal/models"
)

// Bins is the size of the intensity domain for 8-bit grayscale images.
const Bins = 256

// Histogram counts pixels per intensity value. For any grid it was built
// from, the entries sum to width times height.
type Histogram [Bins]int

// Builder converts pixel grids into intensity histograms.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build constructs the frequency table for a grid in a single pass.
// Intensities outside [0, 255] violate the caller contract and fail the
// build instead of corrupting the table.
func (b *Builder) Build(grid models.PixelGrid) (Histogram, error) {
	var hist Histogram

	if err := grid.Validate(); err != nil {
		return hist, err
	}

	for _, row := range grid {
		for _, v := range row {
			hist[v]++
		}
	}

	return hist, nil
}

// Total returns the number of pixels counted.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// WeightedSum returns the sum of all pixel intensities.
func (h Histogram) WeightedSum() int {
	sum := 0
	for level, n := range h {
		sum += level * n
	}
	return sum
}

// Mean returns the average intensity, or zero for an empty histogram.
func (h Histogram) Mean() float64 {
	total := h.Total()
	if total == 0 {
		return 0
	}
	return float64(h.WeightedSum()) / float64(total)
}
