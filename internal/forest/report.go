package forest

import (
	"errors"
	"fmt"
	"strings"
)

// ClassMetrics holds per-class precision, recall and F1.
type ClassMetrics struct {
	Label     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes held-out performance.
type Report struct {
	Accuracy float64
	Classes  []ClassMetrics
}

// Evaluate scores m on x/y.
func Evaluate(m *Model, x [][]float64, y []int) (Report, error) {
	if len(x) == 0 {
		return Report{}, errors.New("no evaluation samples")
	}
	if len(x) != len(y) {
		return Report{}, fmt.Errorf("features and labels size mismatch: %d vs %d", len(x), len(y))
	}

	tp := make(map[int]int)
	predicted := make(map[int]int)
	actual := make(map[int]int)
	correct := 0
	for i := range x {
		got, err := m.Predict(x[i])
		if err != nil {
			return Report{}, fmt.Errorf("sample %d: %w", i, err)
		}
		predicted[got]++
		actual[y[i]]++
		if got == y[i] {
			tp[got]++
			correct++
		}
	}

	r := Report{Accuracy: float64(correct) / float64(len(x))}
	for _, label := range m.Classes {
		cm := ClassMetrics{Label: label, Support: actual[label]}
		if predicted[label] > 0 {
			cm.Precision = float64(tp[label]) / float64(predicted[label])
		}
		if actual[label] > 0 {
			cm.Recall = float64(tp[label]) / float64(actual[label])
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		r.Classes = append(r.Classes, cm)
	}
	return r, nil
}

// String renders the report as an aligned text table.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "accuracy: %.4f\n\n", r.Accuracy)
	fmt.Fprintf(&sb, "%8s %10s %10s %10s %10s\n", "class", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&sb, "%8d %10.2f %10.2f %10.2f %10d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	return sb.String()
}
