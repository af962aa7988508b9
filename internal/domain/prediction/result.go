package prediction

import (
	"fmt"
	"math"
)

// SumTolerance bounds how far a probability distribution may drift from 1.
const SumTolerance = 1e-6

// Result is the outcome of one binary classification.
type Result struct {
	label         int
	probabilities []float64
}

// New validates and builds a Result.
func New(label int, probabilities []float64) (Result, error) {
	if len(probabilities) != 2 {
		return Result{}, fmt.Errorf("expected 2 class probabilities, got %d", len(probabilities))
	}
	if label != 0 && label != 1 {
		return Result{}, fmt.Errorf("label must be 0 or 1, got %d", label)
	}
	sum := 0.0
	for i, p := range probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return Result{}, fmt.Errorf("probability %d out of range: %v", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > SumTolerance {
		return Result{}, fmt.Errorf("probabilities sum to %v, want 1", sum)
	}
	return Result{label: label, probabilities: append([]float64(nil), probabilities...)}, nil
}

// FromProbabilities picks the most probable class; the first maximum wins.
// classes maps probability positions to labels.
func FromProbabilities(classes []int, probabilities []float64) (Result, error) {
	if len(classes) != len(probabilities) {
		return Result{}, fmt.Errorf("%d classes but %d probabilities", len(classes), len(probabilities))
	}
	if len(probabilities) == 0 {
		return Result{}, fmt.Errorf("empty probability distribution")
	}
	best := 0
	for i := 1; i < len(probabilities); i++ {
		if probabilities[i] > probabilities[best] {
			best = i
		}
	}
	return New(classes[best], probabilities)
}

// Label returns the predicted class.
func (r Result) Label() int { return r.label }

// Probabilities returns a copy of the class distribution.
func (r Result) Probabilities() []float64 {
	return append([]float64(nil), r.probabilities...)
}
