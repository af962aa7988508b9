package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedShape signals an array-shape payload that fails structural validation.
	ErrMalformedShape = errors.New("malformed feature array")
	// ErrInvalidFeatureValue signals a named feature whose value is not numeric.
	ErrInvalidFeatureValue = errors.New("invalid feature value")
	// ErrMissingFeatures signals a named payload that omits required features.
	ErrMissingFeatures = errors.New("missing features")
	// ErrModelInference signals a classifier failure on a structurally valid vector.
	ErrModelInference = errors.New("model inference error")

	// ErrArtifactNotFound signals that the persisted model artifact does not exist.
	ErrArtifactNotFound = errors.New("model artifact not found")
	// ErrInvalidArtifact signals a model artifact that cannot be decoded or is inconsistent.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// MaxReportedMissing caps the number of missing feature names reported to the client.
const MaxReportedMissing = 6

// MalformedShapeError wraps ErrMalformedShape with the validation detail.
type MalformedShapeError struct {
	Detail string
}

func (e *MalformedShapeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedShape.Error(), e.Detail)
}

func (e *MalformedShapeError) Unwrap() error { return ErrMalformedShape }

// NewMalformedShape creates a malformed shape error.
func NewMalformedShape(detail string) error {
	return &MalformedShapeError{Detail: detail}
}

// InvalidFeatureValueError wraps ErrInvalidFeatureValue with the offending key.
type InvalidFeatureValueError struct {
	Key string
}

func (e *InvalidFeatureValueError) Error() string {
	return fmt.Sprintf("Feature '%s' must be numeric", e.Key)
}

func (e *InvalidFeatureValueError) Unwrap() error { return ErrInvalidFeatureValue }

// NewInvalidFeatureValue creates an invalid feature value error for key.
func NewInvalidFeatureValue(key string) error {
	return &InvalidFeatureValueError{Key: key}
}

// MissingFeaturesError wraps ErrMissingFeatures with the capped, sorted list of absent names.
type MissingFeaturesError struct {
	Missing   []string
	Truncated bool
}

func (e *MissingFeaturesError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		quoted[i] = "'" + name + "'"
	}
	msg := "Missing features: [" + strings.Join(quoted, ", ") + "]"
	if e.Truncated {
		msg += "..."
	}
	return msg
}

func (e *MissingFeaturesError) Unwrap() error { return ErrMissingFeatures }

// NewMissingFeatures creates a missing features error.
// missing must already be sorted; it is capped at MaxReportedMissing.
func NewMissingFeatures(missing []string) error {
	e := &MissingFeaturesError{}
	if len(missing) > MaxReportedMissing {
		e.Missing = append([]string(nil), missing[:MaxReportedMissing]...)
		e.Truncated = true
		return e
	}
	e.Missing = append([]string(nil), missing...)
	return e
}
