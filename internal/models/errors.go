package models

import "errors"

// Error taxonomy for the thresholding core. All of these surface
// synchronously to the caller; none are retried and none are swallowed
// into NaN arithmetic.
var (
	// ErrEmptyGrid reports a grid with zero rows or zero columns.
	ErrEmptyGrid = errors.New("pixel grid is empty")

	// ErrRaggedGrid reports a grid whose rows differ in length.
	ErrRaggedGrid = errors.New("pixel grid is not rectangular")

	// ErrIntensityRange reports an intensity outside [0, 255].
	ErrIntensityRange = errors.New("intensity outside [0, 255]")

	// ErrInvalidEpsilon reports a negative convergence tolerance.
	ErrInvalidEpsilon = errors.New("epsilon must be non-negative")

	// ErrEmptyClass reports that a mean-split partition step produced a
	// class with no pixels, leaving its mean undefined.
	ErrEmptyClass = errors.New("partition produced an empty class")

	// ErrNoConvergence reports that the iterative search exhausted its
	// iteration budget without the threshold settling.
	ErrNoConvergence = errors.New("threshold search did not converge")
)
