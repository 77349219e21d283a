package threshold

import (
	"image"
	"image/color"

	"bilevel/internal/models"
)

// BinaryApplier maps a pixel grid and a chosen threshold to a black and
// white image. It is stateless; a single applier can serve concurrent
// requests.
type BinaryApplier struct{}

func NewBinaryApplier() *BinaryApplier {
	return &BinaryApplier{}
}

// Apply returns an image of the same dimensions where every pixel
// strictly above the threshold is white and everything else is black.
func (a *BinaryApplier) Apply(grid models.PixelGrid, threshold int) (*image.Gray, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	out := image.NewGray(image.Rect(0, 0, grid.Width(), grid.Height()))

	for y, row := range grid {
		for x, v := range row {
			if v > threshold {
				out.SetGray(x, y, color.Gray{Y: models.MaxIntensity})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	return out, nil
}
