package bcpredict

import (
	"errors"

	"github.com/kailas-cloud/bcpredict/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMalformedShape      = domain.ErrMalformedShape
	ErrInvalidFeatureValue = domain.ErrInvalidFeatureValue
	ErrMissingFeatures     = domain.ErrMissingFeatures
	ErrModelInference      = domain.ErrModelInference
	ErrArtifactNotFound    = domain.ErrArtifactNotFound
	ErrInvalidArtifact     = domain.ErrInvalidArtifact
)

// ErrNilItem is returned by TypedPredictor.Predict for a nil pointer item.
var ErrNilItem = errors.New("bcpredict: nil item")

// Detailed validation errors. Use errors.As() to extract them.
type (
	MalformedShapeError      = domain.MalformedShapeError
	InvalidFeatureValueError = domain.InvalidFeatureValueError
	MissingFeaturesError     = domain.MissingFeaturesError
)
