// Package otsu implements Otsu's method: the threshold maximizing the
// between-class variance of the background and foreground intensity
// classes.
package otsu

import (
	"fmt"
	"math"
	"time"

	"bilevel/internal/models"
	"bilevel/internal/processing/histogram"
)

// Name identifies the solver in the algorithm registry.
const Name = "otsu"

// Processor runs a single sweep over all 256 candidate thresholds,
// maintaining class weights and running means incrementally so each
// candidate costs O(1) instead of a fresh histogram scan.
type Processor struct {
	name    string
	builder *histogram.Builder
}

func NewProcessor() *Processor {
	return &Processor{
		name:    Name,
		builder: histogram.NewBuilder(),
	}
}

func (p *Processor) GetName() string {
	return p.name
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return map[string]interface{}{}
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	return nil
}

// Compute returns the threshold with maximal between-class variance
// weightBg * weightFg * (meanFg - meanBg)^2. Ties keep the lowest
// threshold. An empty grid fails validation before any division can
// produce NaN.
func (p *Processor) Compute(grid models.PixelGrid, params map[string]interface{}) (*models.ThresholdResult, error) {
	start := time.Now()

	hist, err := p.builder.Build(grid)
	if err != nil {
		return nil, fmt.Errorf("histogram build failed: %w", err)
	}

	total := float64(hist.Total())

	weightBg := 0.0
	meanBg := 0.0
	weightFg := total
	meanFg := float64(hist.WeightedSum()) / total

	best := 0
	bestVariance := math.Inf(-1)

	t := 0
	for t < histogram.Bins {
		diffMeans := meanFg - meanBg
		variance := weightBg * weightFg * diffMeans * diffMeans

		// Strict comparison keeps the first threshold among ties.
		if variance > bestVariance {
			bestVariance = variance
			best = t
		}

		// Empty buckets migrate no pixel mass. Once the skip reaches the
		// end of the range every pixel has moved to the background class
		// and the sweep is done.
		for t < histogram.Bins && hist[t] == 0 {
			t++
		}
		if t == histogram.Bins {
			break
		}

		count := float64(hist[t])
		level := float64(t)

		meanBg = (meanBg*weightBg + count*level) / (weightBg + count)
		if weightFg > count {
			meanFg = (meanFg*weightFg - count*level) / (weightFg - count)
		} else {
			// The last occupied bucket just migrated; the foreground
			// class is empty and its mean must not go NaN.
			meanFg = 0
		}
		weightBg += count
		weightFg -= count
		t++
	}

	return &models.ThresholdResult{
		Threshold:            best,
		Algorithm:            p.name,
		BetweenClassVariance: bestVariance,
		ProcessTime:          time.Since(start),
	}, nil
}
