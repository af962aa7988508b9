package predcache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bcpredict/internal/db"
	"github.com/kailas-cloud/bcpredict/internal/domain/prediction"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	getCalls int
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalls++
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_prediction_cache_total",
		Help: "test",
	}, []string{"tier", "result"})
}

func newTestCache(t *testing.T, s store) (*Cache, *prometheus.CounterVec) {
	t.Helper()
	counter := newCounter()
	c, err := New(8, s, time.Minute, counter, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, counter
}

func mustResult(t *testing.T, label int, p0, p1 float64) prediction.Result {
	t.Helper()
	r, err := prediction.New(label, []float64{p0, p1})
	if err != nil {
		t.Fatalf("prediction.New: %v", err)
	}
	return r
}
