package prediction

import (
	"time"

	"github.com/kailas-cloud/bcpredict/internal/domain/artifact"
	"github.com/kailas-cloud/bcpredict/internal/metrics"
)

// InstrumentedClassifier wraps a Classifier with inference timing.
type InstrumentedClassifier struct {
	inner artifact.Classifier
	model string
}

// NewInstrumentedClassifier wraps a classifier with observability.
func NewInstrumentedClassifier(inner artifact.Classifier, model string) *InstrumentedClassifier {
	return &InstrumentedClassifier{inner: inner, model: model}
}

// PredictProba delegates to the inner classifier and records its duration.
func (c *InstrumentedClassifier) PredictProba(x []float64) ([]float64, error) {
	start := time.Now()
	proba, err := c.inner.PredictProba(x)
	metrics.InferenceDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with ErrModelInference
	}
	return proba, nil
}

// ClassLabels delegates to the inner classifier.
func (c *InstrumentedClassifier) ClassLabels() []int { return c.inner.ClassLabels() }

// NumFeatures delegates to the inner classifier.
func (c *InstrumentedClassifier) NumFeatures() int { return c.inner.NumFeatures() }
