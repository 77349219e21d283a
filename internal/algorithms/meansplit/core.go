// Package meansplit implements basic global thresholding: an iterative
// fixed point search that repartitions pixels around the current
// threshold and moves it to the midpoint of the two class means.
package meansplit

import (
	"fmt"
	"math"
	"time"

	"bilevel/internal/models"
	"bilevel/internal/processing/histogram"
)

// Name identifies the solver in the algorithm registry.
const Name = "meansplit"

const (
	// DefaultEpsilon is the threshold change below which iteration stops.
	DefaultEpsilon = 2.0

	// DefaultMaxIterations bounds the search against oscillating inputs
	// whose threshold change never drops below epsilon.
	DefaultMaxIterations = 50
)

// Processor converges quickly for unimodal or bimodal histograms,
// typically in under ten iterations. It is cheaper per step than Otsu's
// sweep but not guaranteed globally optimal.
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
	return map[string]interface{}{
		"epsilon":        DefaultEpsilon,
		"max_iterations": DefaultMaxIterations,
	}
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	if epsilon, ok := params["epsilon"].(float64); ok {
		if epsilon < 0 {
			return fmt.Errorf("%w: got %g", models.ErrInvalidEpsilon, epsilon)
		}
	}

	if maxIterations, ok := params["max_iterations"].(int); ok {
		if maxIterations <= 0 {
			return fmt.Errorf("max_iterations must be positive, got: %d", maxIterations)
		}
	}

	return nil
}

// Compute seeds the threshold with the truncated global mean, then
// repeatedly splits the pixels into the classes above and at-or-below
// the threshold and moves it to floor((m1+m2)/2), stopping once the
// change drops below epsilon.
//
// A partition that leaves either class empty makes its mean undefined;
// that fails with ErrEmptyClass rather than dividing by zero. Uniform
// images always hit this on the first partition, since no pixel exceeds
// the global mean.
func (p *Processor) Compute(grid models.PixelGrid, params map[string]interface{}) (*models.ThresholdResult, error) {
	start := time.Now()

	if err := p.ValidateParameters(params); err != nil {
		return nil, err
	}

	epsilon := DefaultEpsilon
	if v, ok := params["epsilon"].(float64); ok {
		epsilon = v
	}
	maxIterations := DefaultMaxIterations
	if v, ok := params["max_iterations"].(int); ok {
		maxIterations = v
	}

	hist, err := p.builder.Build(grid)
	if err != nil {
		return nil, fmt.Errorf("histogram build failed: %w", err)
	}

	threshold := int(hist.Mean())

	for iteration := 1; iteration <= maxIterations; iteration++ {
		var sum1, sum2, size1, size2 int

		for _, row := range grid {
			for _, v := range row {
				if v > threshold {
					sum1 += v
					size1++
				} else {
					sum2 += v
					size2++
				}
			}
		}

		if size1 == 0 || size2 == 0 {
			return nil, fmt.Errorf("%w at threshold %d", models.ErrEmptyClass, threshold)
		}

		m1 := float64(sum1) / float64(size1)
		m2 := float64(sum2) / float64(size2)
		next := int((m1 + m2) / 2)

		if math.Abs(float64(next-threshold)) < epsilon {
			return &models.ThresholdResult{
				Threshold:   next,
				Algorithm:   p.name,
				Iterations:  iteration,
				ProcessTime: time.Since(start),
			}, nil
		}

		threshold = next
	}

	return nil, fmt.Errorf("%w after %d iterations", models.ErrNoConvergence, maxIterations)
}
