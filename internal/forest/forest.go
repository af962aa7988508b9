// Package forest implements a standardized random forest classifier
// with a JSON-serializable model.
package forest

import (
	"errors"
	"fmt"
)

// TypeRandomForest is the model type tag stored in artifacts.
const TypeRandomForest = "random_forest"

// Model is a trained forest. Inputs are standardized by Scaler before
// being routed through every tree; class probabilities are the mean of
// the leaf distributions.
type Model struct {
	Type      string `json:"type"`
	Classes   []int  `json:"classes"`
	NFeatures int    `json:"n_features"`
	Scaler    Scaler `json:"scaler"`
	Trees     []Tree `json:"trees"`
}

// Validate checks the model is internally consistent.
func (m *Model) Validate() error {
	if m.Type != TypeRandomForest {
		return fmt.Errorf("unsupported model type %q", m.Type)
	}
	if len(m.Classes) < 2 {
		return fmt.Errorf("model needs at least 2 classes, got %d", len(m.Classes))
	}
	if m.NFeatures <= 0 {
		return errors.New("model has no features")
	}
	if err := m.Scaler.validate(m.NFeatures); err != nil {
		return err
	}
	if len(m.Trees) == 0 {
		return errors.New("model has no trees")
	}
	for i, t := range m.Trees {
		if err := t.validate(m.NFeatures, len(m.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// PredictProba returns one probability per entry of Classes.
func (m *Model) PredictProba(x []float64) ([]float64, error) {
	if len(x) != m.NFeatures {
		return nil, fmt.Errorf("model expects %d features, got %d", m.NFeatures, len(x))
	}
	if len(m.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}
	scaled, err := m.Scaler.Transform(x)
	if err != nil {
		return nil, err
	}

	proba := make([]float64, len(m.Classes))
	for i, t := range m.Trees {
		dist, err := t.leaf(scaled)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if len(dist) != len(proba) {
			return nil, fmt.Errorf("tree %d: leaf has %d classes, want %d", i, len(dist), len(proba))
		}
		for c, p := range dist {
			proba[c] += p
		}
	}
	n := float64(len(m.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// Predict returns the class label with the highest probability.
// Ties resolve to the lowest class index.
func (m *Model) Predict(x []float64) (int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return m.Classes[argmax(proba)], nil
}

// ClassLabels returns the class labels in probability order.
func (m *Model) ClassLabels() []int { return append([]int(nil), m.Classes...) }

// NumFeatures returns the expected input width.
func (m *Model) NumFeatures() int { return m.NFeatures }

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
