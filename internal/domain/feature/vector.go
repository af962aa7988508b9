package feature

// Vector is a resolved model input, positionally aligned to Names.
// It is built once per request and never mutated afterwards.
type Vector struct {
	values []float64
}

// NewVector copies values into a Vector.
func NewVector(values []float64) Vector {
	return Vector{values: append([]float64(nil), values...)}
}

// Len returns the number of values.
func (v Vector) Len() int { return len(v.values) }

// At returns the value at position i.
func (v Vector) At(i int) float64 { return v.values[i] }

// Values returns a copy of the underlying values.
func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}
