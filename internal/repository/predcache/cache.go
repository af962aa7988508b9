package predcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bcpredict/internal/db"
	"github.com/kailas-cloud/bcpredict/internal/domain/prediction"
)

const cacheKeyPrefix = "bcpredict:pred:"

// Cache tiers, used as the "tier" metric label.
const (
	TierMemory = "memory"
	TierStore  = "store"
)

// store is the consumer interface for the shared cache tier (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	Label int       `json:"label"`
	Proba []float64 `json:"proba"`
}

// Cache memoizes predictions per model and input vector.
// The in-process LRU is always consulted first; the key-value store,
// when configured, is shared between replicas.
type Cache struct {
	mem        *lru.Cache[string, entry]
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a prediction cache holding up to size entries in memory.
// s may be nil. cacheTotal has labels "tier" and "result" and may be nil.
func New(
	size int,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) (*Cache, error) {
	mem, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{mem: mem, store: s, ttl: ttl, cacheTotal: cacheTotal, logger: logger}, nil
}

// Get returns a cached prediction for x under model.
func (c *Cache) Get(ctx context.Context, model string, x []float64) (prediction.Result, bool) {
	key := cacheKey(model, x)

	if e, ok := c.mem.Get(key); ok {
		c.inc(TierMemory, "hit")
		return c.toResult(key, e)
	}
	c.inc(TierMemory, "miss")

	if c.store == nil {
		return prediction.Result{}, false
	}
	e, ok := c.getFromStore(ctx, key)
	if !ok {
		c.inc(TierStore, "miss")
		return prediction.Result{}, false
	}
	c.inc(TierStore, "hit")
	c.mem.Add(key, e)
	return c.toResult(key, e)
}

// Put stores r for x under model in every tier.
func (c *Cache) Put(ctx context.Context, model string, x []float64, r prediction.Result) {
	key := cacheKey(model, x)
	e := entry{Label: r.Label(), Proba: r.Probabilities()}
	c.mem.Add(key, e)

	if c.store == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn("Failed to encode cached prediction", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache prediction", zap.String("key", key), zap.Error(err))
	}
}

// Len returns the number of in-memory entries.
func (c *Cache) Len() int { return c.mem.Len() }

func (c *Cache) getFromStore(ctx context.Context, key string) (entry, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached prediction", zap.String("key", key), zap.Error(err))
		}
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached prediction", zap.String("key", key), zap.Error(err))
		return entry{}, false
	}
	return e, true
}

func (c *Cache) toResult(key string, e entry) (prediction.Result, bool) {
	r, err := prediction.New(e.Label, e.Proba)
	if err != nil {
		c.logger.Warn("Discarding invalid cached prediction", zap.String("key", key), zap.Error(err))
		c.mem.Remove(key)
		return prediction.Result{}, false
	}
	return r, true
}

func (c *Cache) inc(tier, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(tier, result).Inc()
	}
}

// cacheKey hashes the model name and the exact bit pattern of every value.
func cacheKey(model string, x []float64) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	var buf [8]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
