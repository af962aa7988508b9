package forest

import (
	"errors"
	"fmt"
	"math"
)

// Scaler standardizes features to zero mean and unit variance.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-column mean and population standard deviation.
// Constant columns get a scale of 1 so they pass through centered.
func FitScaler(x [][]float64) (Scaler, error) {
	if len(x) == 0 {
		return Scaler{}, errors.New("no samples")
	}
	cols := len(x[0])
	mean := make([]float64, cols)
	for i, row := range x {
		if len(row) != cols {
			return Scaler{}, fmt.Errorf("row %d: %d columns, want %d", i, len(row), cols)
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(x))
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, cols)
	for _, row := range x {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return Scaler{Mean: mean, Scale: scale}, nil
}

// Transform returns a standardized copy of x.
func (s Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

func (s Scaler) validate(nFeatures int) error {
	if len(s.Mean) != nFeatures || len(s.Scale) != nFeatures {
		return fmt.Errorf("scaler has %d/%d columns, want %d", len(s.Mean), len(s.Scale), nFeatures)
	}
	for i, sc := range s.Scale {
		if sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("scaler column %d has invalid scale %v", i, sc)
		}
	}
	return nil
}
