package artifact

import (
	"context"
	"testing"

	"github.com/kailas-cloud/bcpredict/internal/db"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
	"github.com/kailas-cloud/bcpredict/internal/forest"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

// countingSource counts Load calls.
type countingSource struct {
	data  []byte
	err   error
	calls int
}

func (s *countingSource) Load(_ context.Context) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

func (s *countingSource) String() string { return "counting" }

// stumpModel returns a valid single-tree model over n features split on feature 0.
func stumpModel(n int) *forest.Model {
	mean := make([]float64, n)
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = 1
	}
	return &forest.Model{
		Type:      forest.TypeRandomForest,
		Classes:   []int{0, 1},
		NFeatures: n,
		Scaler:    forest.Scaler{Mean: mean, Scale: scale},
		Trees: []forest.Tree{{Nodes: []forest.Node{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
			{Feature: -1, Left: -1, Right: -1, Value: []float64{0.8, 0.2}},
			{Feature: -1, Left: -1, Right: -1, Value: []float64{0.1, 0.9}},
		}}},
	}
}

func encoded(t *testing.T, modelName string, names ...string) []byte {
	t.Helper()
	fn, err := feature.NewNames(names)
	if err != nil {
		t.Fatalf("NewNames: %v", err)
	}
	data, err := Encode(modelName, fn, stumpModel(len(names)))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}
