package prediction

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		label   int
		probs   []float64
		wantErr string
	}{
		{"valid", 1, []float64{0.3, 0.7}, ""},
		{"within tolerance", 0, []float64{0.6, 0.4000000001}, ""},
		{"three classes", 0, []float64{0.2, 0.3, 0.5}, "expected 2"},
		{"bad label", 2, []float64{0.5, 0.5}, "label must be"},
		{"negative", 0, []float64{-0.1, 1.1}, "out of range"},
		{"bad sum", 0, []float64{0.5, 0.4}, "sum to"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.label, tc.probs)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestFromProbabilities(t *testing.T) {
	r, err := FromProbabilities([]int{0, 1}, []float64{0.25, 0.75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Label() != 1 {
		t.Errorf("Label() = %d, want 1", r.Label())
	}

	tie, err := FromProbabilities([]int{0, 1}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tie.Label() != 0 {
		t.Errorf("tie Label() = %d, want 0", tie.Label())
	}

	probs := r.Probabilities()
	probs[0] = 1
	if r.Probabilities()[0] != 0.25 {
		t.Error("Probabilities() must return a copy")
	}

	if _, err := FromProbabilities([]int{0}, []float64{0.5, 0.5}); err == nil {
		t.Error("expected class/probability length mismatch")
	}
}
