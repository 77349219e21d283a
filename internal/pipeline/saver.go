package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// ImageSaver encodes processed images to PNG, JPEG, or TIFF.
type ImageSaver struct {
	logger  Logger
	tracker *TimingTracker
}

func NewImageSaver(logger Logger, tracker *TimingTracker) *ImageSaver {
	return &ImageSaver{
		logger:  logger,
		tracker: tracker,
	}
}

func (s *ImageSaver) SaveToWriter(writer io.Writer, img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	done := s.tracker.Start("encode")
	defer done()

	s.logger.Debug("saver", "saving image", map[string]interface{}{
		"format": format,
	})

	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: 95})
	case "tiff":
		err = tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	case "png":
		err = png.Encode(writer, img)
	default:
		s.logger.Warning("saver", "unknown format, using PNG", map[string]interface{}{
			"requested_format": format,
		})
		err = png.Encode(writer, img)
	}

	if err != nil {
		s.logger.Error("saver", err, map[string]interface{}{
			"format": format,
		})
		return err
	}

	return nil
}

func (s *ImageSaver) SaveToPath(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	format := determineFormat(strings.ToLower(filepath.Ext(path)), "")
	if format == "unknown" {
		format = "png"
	}

	return s.SaveToWriter(file, img, format)
}
