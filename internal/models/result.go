package models

import "time"

// ThresholdResult is the sole externally observable output of a solver
// run. Threshold always lies in [0, 255]; foreground pixels are the ones
// strictly above it.
type ThresholdResult struct {
	Threshold int
	Algorithm string

	// Iterations is the number of repartition passes the iterative
	// solver needed; zero for the single-sweep Otsu solver.
	Iterations int

	// BetweenClassVariance is the Otsu objective at the chosen
	// threshold; zero for solvers that do not optimize it.
	BetweenClassVariance float64

	ProcessTime time.Duration
}
