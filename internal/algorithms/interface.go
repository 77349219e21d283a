package algorithms

import (
	"bilevel/internal/models"
)

// Algorithm defines the contract shared by every thresholding strategy.
// Implementations are pure: each call owns its transient state, so
// independent invocations may run concurrently on different grids.
type Algorithm interface {
	Compute(grid models.PixelGrid, params map[string]interface{}) (*models.ThresholdResult, error)
	ValidateParameters(params map[string]interface{}) error
	GetDefaultParameters() map[string]interface{}
	GetName() string
}
