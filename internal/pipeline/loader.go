package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"bilevel/internal/models"
)

// ImageLoader decodes images and projects them onto the grayscale pixel
// grid the solvers consume.
type ImageLoader struct {
	logger  Logger
	tracker *TimingTracker
}

func NewImageLoader(logger Logger, tracker *TimingTracker) *ImageLoader {
	return &ImageLoader{
		logger:  logger,
		tracker: tracker,
	}
}

func (l *ImageLoader) LoadFromPath(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return l.LoadFromBytes(data, strings.ToLower(filepath.Ext(path)))
}

func (l *ImageLoader) LoadFromBytes(data []byte, extension string) (*ImageData, error) {
	done := l.tracker.Start("decode")
	img, decodedFormat, err := image.Decode(bytes.NewReader(data))
	done()

	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	gray := toGray(img)
	bounds := img.Bounds()

	imageData := &ImageData{
		Image:  img,
		Gray:   gray,
		Grid:   models.GridFromGray(gray),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: determineFormat(extension, decodedFormat),
	}

	l.logger.Info("loader", "image loaded", map[string]interface{}{
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": imageData.Format,
	})

	return imageData, nil
}

// toGray converts any decoded image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return gray
}

func determineFormat(extension, decodedFormat string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	default:
		if decodedFormat != "" {
			return decodedFormat
		}
		return "unknown"
	}
}
