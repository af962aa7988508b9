package predcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/bcpredict/internal/db"
)

func TestCache_MemoryHit(t *testing.T) {
	c, counter := newTestCache(t, nil)
	ctx := context.Background()
	x := []float64{1, 2, 3}

	if _, ok := c.Get(ctx, "rf", x); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put(ctx, "rf", x, mustResult(t, 1, 0.3, 0.7))

	got, ok := c.Get(ctx, "rf", x)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Label() != 1 || got.Probabilities()[1] != 0.7 {
		t.Errorf("unexpected result: %d %v", got.Label(), got.Probabilities())
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(TierMemory, "hit")); v != 1 {
		t.Errorf("memory hits = %v, want 1", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(TierMemory, "miss")); v != 1 {
		t.Errorf("memory misses = %v, want 1", v)
	}
}

func TestCache_KeyedByModelAndValues(t *testing.T) {
	c, _ := newTestCache(t, nil)
	ctx := context.Background()
	c.Put(ctx, "rf", []float64{1, 2}, mustResult(t, 0, 0.6, 0.4))

	if _, ok := c.Get(ctx, "other", []float64{1, 2}); ok {
		t.Error("different model must not share entries")
	}
	if _, ok := c.Get(ctx, "rf", []float64{2, 1}); ok {
		t.Error("different order must not share entries")
	}
}

func TestCache_StoreHitPromotesToMemory(t *testing.T) {
	ms := &mockKVStore{}
	c, counter := newTestCache(t, ms)
	ctx := context.Background()
	x := []float64{4, 5}

	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if !strings.HasPrefix(key, cacheKeyPrefix) {
			t.Errorf("unexpected key %q", key)
		}
		return []byte(`{"label":0,"proba":[0.9,0.1]}`), nil
	}

	got, ok := c.Get(ctx, "rf", x)
	if !ok || got.Label() != 0 {
		t.Fatalf("expected store hit, got %v %v", got, ok)
	}
	if _, ok := c.Get(ctx, "rf", x); !ok {
		t.Fatal("expected memory hit after promotion")
	}
	if ms.getCalls != 1 {
		t.Errorf("store consulted %d times, want 1", ms.getCalls)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(TierStore, "hit")); v != 1 {
		t.Errorf("store hits = %v, want 1", v)
	}
}

func TestCache_PutWritesStoreWithTTL(t *testing.T) {
	ms := &mockKVStore{}
	c, _ := newTestCache(t, ms)

	var gotTTL time.Duration
	var gotValue string
	ms.setFn = func(_ context.Context, _ string, value []byte, ttl time.Duration) error {
		gotTTL = ttl
		gotValue = string(value)
		return nil
	}

	c.Put(context.Background(), "rf", []float64{1}, mustResult(t, 1, 0.25, 0.75))
	if gotTTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", gotTTL)
	}
	if gotValue != `{"label":1,"proba":[0.25,0.75]}` {
		t.Errorf("value = %s", gotValue)
	}
}

func TestCache_StoreErrorsAreMisses(t *testing.T) {
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) { return nil, errors.New("conn refused") },
		setFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error { return errors.New("conn refused") },
	}
	c, counter := newTestCache(t, ms)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "rf", []float64{1}); ok {
		t.Fatal("expected miss")
	}
	if v := testutil.ToFloat64(counter.WithLabelValues(TierStore, "miss")); v != 1 {
		t.Errorf("store misses = %v, want 1", v)
	}

	// Put still fills memory even when the store write fails.
	c.Put(ctx, "rf", []float64{1}, mustResult(t, 0, 1, 0))
	if _, ok := c.Get(ctx, "rf", []float64{1}); !ok {
		t.Error("expected memory hit after failed store write")
	}
}

func TestCache_InvalidStoredEntryIgnored(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "garbage"},
		{"bad distribution", `{"label":1,"proba":[0.5,0.9]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ms := &mockKVStore{getFn: func(_ context.Context, _ string) ([]byte, error) {
				return []byte(tc.data), nil
			}}
			c, _ := newTestCache(t, ms)
			if _, ok := c.Get(context.Background(), "rf", []float64{1}); ok {
				t.Error("expected invalid entry to be treated as a miss")
			}
		})
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c, _ := newTestCache(t, nil)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		c.Put(ctx, "rf", []float64{float64(i)}, mustResult(t, 0, 1, 0))
	}
	if c.Len() != 8 {
		t.Errorf("Len() = %d, want 8", c.Len())
	}
	if _, ok := c.Get(ctx, "rf", []float64{0}); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(0, nil, 0, nil, nil); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestCacheKey_NotFoundSentinel(t *testing.T) {
	ms := &mockKVStore{getFn: func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}}
	c, _ := newTestCache(t, ms)
	if _, ok := c.Get(context.Background(), "rf", []float64{7}); ok {
		t.Error("expected miss")
	}
}
