package pipeline

import (
	"image"

	"bilevel/internal/models"
)

// Logger is the subset of the application logger the pipeline needs.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ImageData carries a decoded image through the pipeline together with
// the grayscale projection the solvers operate on.
type ImageData struct {
	Image  image.Image
	Gray   *image.Gray
	Grid   models.PixelGrid
	Width  int
	Height int
	Format string
}

// Outcome is the result of one processing run: the chosen threshold and
// the binary image derived from it.
type Outcome struct {
	Result *models.ThresholdResult
	Binary *image.Gray
	Source *ImageData
}
