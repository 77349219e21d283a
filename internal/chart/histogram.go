package chart

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bilevel/internal/processing/histogram"
)

var markerColors = []drawing.Color{
	{R: 217, G: 89, B: 61, A: 255},
	{R: 61, G: 121, B: 217, A: 255},
	{R: 61, G: 217, B: 121, A: 255},
}

// createMarker creates a vertical line at a threshold intensity spanning
// the full count axis.
func createMarker(name string, threshold int, maxCount float64, c drawing.Color) chart.ContinuousSeries {
	x := float64(threshold)
	return chart.ContinuousSeries{
		Name:    fmt.Sprintf("%s = %d", name, threshold),
		XValues: []float64{x, x},
		YValues: []float64{0, maxCount},
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 2.0,
		},
	}
}

// Render draws the intensity histogram with a vertical marker per
// computed threshold and writes the chart as a PNG.
func Render(hist histogram.Histogram, thresholds map[string]int, title string, w io.Writer) error {
	if hist.Total() == 0 {
		return errors.New("empty histogram")
	}

	xvalues := make([]float64, histogram.Bins)
	yvalues := make([]float64, histogram.Bins)
	maxCount := 0.0
	for level, count := range hist {
		xvalues[level] = float64(level)
		yvalues[level] = float64(count)
		if float64(count) > maxCount {
			maxCount = float64(count)
		}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "pixels",
			XValues: xvalues,
			YValues: yvalues,
		},
	}

	// Sort threshold names so marker colors are stable between runs.
	names := make([]string, 0, len(thresholds))
	for name := range thresholds {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		color := markerColors[i%len(markerColors)]
		series = append(series, createMarker(name, thresholds[name], maxCount, color))
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1200,
		Height: 600,
		XAxis: chart.XAxis{
			Name:  "Intensity",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(histogram.Bins - 1)},
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}

	return graph.Render(chart.PNG, w)
}
