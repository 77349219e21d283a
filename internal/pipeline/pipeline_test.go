package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilevel/internal/algorithms/meansplit"
	"bilevel/internal/algorithms/otsu"
	"bilevel/internal/models"
)

func testLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(component, message string, fields map[string]interface{})   {}
func (nopLogger) Info(component, message string, fields map[string]interface{})    {}
func (nopLogger) Warning(component, message string, fields map[string]interface{}) {}
func (nopLogger) Error(component string, err error, fields map[string]interface{}) {}

// bimodalPNG encodes a grayscale image whose top half is intensity 50
// and bottom half 200.
func bimodalPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		v := uint8(50)
		if y >= 4 {
			v = 200
		}
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoaderDecodesToGrid(t *testing.T) {
	loader := NewImageLoader(testLogger(), NewTimingTracker())

	data, err := loader.LoadFromBytes(bimodalPNG(t), ".png")
	require.NoError(t, err)

	assert.Equal(t, 8, data.Width)
	assert.Equal(t, 8, data.Height)
	assert.Equal(t, "png", data.Format)
	require.NoError(t, data.Grid.Validate())
	assert.Equal(t, 50, data.Grid[0][0])
	assert.Equal(t, 200, data.Grid[7][7])
}

func TestLoaderConvertsColorToGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	loader := NewImageLoader(testLogger(), NewTimingTracker())
	data, err := loader.LoadFromBytes(buf.Bytes(), ".png")
	require.NoError(t, err)

	v := data.Grid[0][0]
	assert.Greater(t, v, 0)
	assert.Less(t, v, 200)
}

func TestLoaderRejectsGarbage(t *testing.T) {
	loader := NewImageLoader(testLogger(), NewTimingTracker())

	_, err := loader.LoadFromBytes([]byte("not an image"), ".png")
	assert.Error(t, err)
}

func TestCoordinatorOtsuEndToEnd(t *testing.T) {
	coordinator := NewCoordinator(testLogger())

	outcome, err := coordinator.ProcessBytes(bimodalPNG(t), ".png", otsu.Name, nil)
	require.NoError(t, err)

	assert.Greater(t, outcome.Result.Threshold, 50)
	assert.Less(t, outcome.Result.Threshold, 200)

	bounds := outcome.Binary.Bounds()
	assert.Equal(t, 8, bounds.Dx())
	assert.Equal(t, 8, bounds.Dy())
	assert.Equal(t, uint8(0), outcome.Binary.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), outcome.Binary.GrayAt(0, 7).Y)

	stats := coordinator.Stats()
	assert.Equal(t, int64(1), stats["decode"].Count)
	assert.Equal(t, int64(1), stats["compute"].Count)
}

func TestCoordinatorMeansplitEndToEnd(t *testing.T) {
	coordinator := NewCoordinator(testLogger())

	outcome, err := coordinator.ProcessBytes(bimodalPNG(t), ".png", meansplit.Name, map[string]interface{}{
		"epsilon": 2.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 125, outcome.Result.Threshold)
	assert.GreaterOrEqual(t, outcome.Result.Iterations, 1)
}

func TestCoordinatorUnknownAlgorithm(t *testing.T) {
	coordinator := NewCoordinator(testLogger())

	_, err := coordinator.ProcessBytes(bimodalPNG(t), ".png", "sauvola", nil)
	assert.Error(t, err)
}

func TestCoordinatorInputErrorsSurface(t *testing.T) {
	coordinator := NewCoordinator(testLogger())

	// A uniform image leaves the meansplit upper class empty.
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetGray(x, y, color.Gray{Y: 100})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, err := coordinator.ProcessBytes(buf.Bytes(), ".png", meansplit.Name, nil)
	assert.ErrorIs(t, err, models.ErrEmptyClass)
}

func TestSaverRoundTrip(t *testing.T) {
	coordinator := NewCoordinator(testLogger())
	outcome, err := coordinator.ProcessBytes(bimodalPNG(t), ".png", otsu.Name, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, coordinator.Saver().SaveToPath(path, outcome.Binary))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	decoded, err := png.Decode(file)
	require.NoError(t, err)

	gray, ok := decoded.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, outcome.Binary.Pix, gray.Pix)
}

func TestSaverUnknownFormatFallsBackToPNG(t *testing.T) {
	saver := NewImageSaver(testLogger(), NewTimingTracker())

	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	require.NoError(t, saver.SaveToWriter(&buf, img, "webp"))

	_, err := png.Decode(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
}

func TestSaverNilImage(t *testing.T) {
	saver := NewImageSaver(testLogger(), NewTimingTracker())
	assert.Error(t, saver.SaveToWriter(io.Discard, nil, "png"))
}

func TestTimingTrackerAverages(t *testing.T) {
	tracker := NewTimingTracker()

	done := tracker.Start("op")
	done()
	done = tracker.Start("op")
	done()

	stats := tracker.Snapshot()
	require.Contains(t, stats, "op")
	assert.Equal(t, int64(2), stats["op"].Count)
	assert.Equal(t, stats["op"].Total/2, stats["op"].Average())
}
