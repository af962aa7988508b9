package bcpredict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/bcpredict/internal/db"
	dbRedis "github.com/kailas-cloud/bcpredict/internal/db/redis"
	"github.com/kailas-cloud/bcpredict/internal/domain/artifact"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
	"github.com/kailas-cloud/bcpredict/internal/domain/payload"
	domprediction "github.com/kailas-cloud/bcpredict/internal/domain/prediction"
	artifactrepo "github.com/kailas-cloud/bcpredict/internal/repository/artifact"
	"github.com/kailas-cloud/bcpredict/internal/repository/predcache"
	healthuc "github.com/kailas-cloud/bcpredict/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/bcpredict/internal/usecase/prediction"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interface, swapped in tests.
type predictionUseCase interface {
	PredictPayload(ctx context.Context, p payload.Payload) (domprediction.Result, error)
	ModelName() string
	FeatureNames() feature.Names
}

// Prediction is a classifier decision.
type Prediction struct {
	Label         int       // 0 or 1
	Probabilities []float64 // per class, index = label
	ModelName     string
}

// Client is the bcpredict SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	predictor predictionUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New loads the model artifact and returns a ready Client.
// Exactly one artifact source is required: WithArtifactFile,
// WithArtifactBytes, WithRedis or WithValkey.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{modelName: artifact.DefaultModelName}
	for _, o := range opts {
		o.apply(cfg)
	}

	if n := countSources(cfg); n != 1 {
		return nil, fmt.Errorf("bcpredict: exactly one artifact source required, got %d", n)
	}

	var store db.Store
	var source artifactrepo.Source
	switch {
	case cfg.artifactPath != "":
		source = artifactrepo.FileSource{Path: cfg.artifactPath}
	case cfg.artifactData != nil:
		source = artifactrepo.BytesSource(cfg.artifactData)
	default:
		s, err := createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = s
		source = artifactrepo.NewStoreSource(s, cfg.storeKey)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		closeStore(store)
		return nil, err
	}

	c, err := wireClient(ctx, store, source, cfg, obs)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	return c, nil
}

func countSources(cfg *clientConfig) int {
	n := 0
	if cfg.artifactPath != "" {
		n++
	}
	if cfg.artifactData != nil {
		n++
	}
	if len(cfg.addrs) > 0 {
		n++
	}
	return n
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("bcpredict: unknown driver %q", cfg.driver)
	}
	if cfg.storeKey == "" {
		return nil, errors.New("bcpredict: artifact key required")
	}

	// rueidis speaks both protocols; the driver name only shows up in errors.
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("bcpredict: create %s store: %w", cfg.driver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("bcpredict: %s not ready: %w", cfg.driver, err)
	}
	return s, nil
}

func wireClient(
	ctx context.Context,
	store db.Store,
	source artifactrepo.Source,
	cfg *clientConfig,
	obs *observer,
) (*Client, error) {
	provider := artifactrepo.NewProvider(source, cfg.modelName, nil)
	art, err := provider.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("bcpredict: %w", err)
	}

	svc, err := predictionuc.New(art)
	if err != nil {
		return nil, fmt.Errorf("bcpredict: %w", err)
	}
	if cfg.cacheSize > 0 {
		cache, err := predcache.New(cfg.cacheSize, nil, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("bcpredict: %w", err)
		}
		svc.WithCache(cache)
	}

	// Pass nil interface (not typed nil pointer!) when no store is used.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		predictor: svc,
		healthSvc: healthuc.New(provider, pinger),
		obs:       obs,
	}, nil
}

func closeStore(s db.Store) {
	if s != nil {
		s.Close()
	}
}

// Close releases all resources.
func (c *Client) Close() {
	closeStore(c.store)
}

// ModelName returns the served model's name.
func (c *Client) ModelName() string { return c.predictor.ModelName() }

// FeatureNames returns the required feature names in model order.
func (c *Client) FeatureNames() []string { return c.predictor.FeatureNames().Slice() }

// Predict classifies a positional feature vector. The values are trusted to
// follow FeatureNames order; only the length is checked.
func (c *Client) Predict(ctx context.Context, values []float64) (Prediction, error) {
	return c.predict(ctx, "predict", payload.FromArray(values))
}

// PredictNamed classifies a name → value mapping. Every name in FeatureNames
// is required; unknown names are ignored.
func (c *Client) PredictNamed(ctx context.Context, values map[string]float64) (Prediction, error) {
	return c.predict(ctx, "predict_named", payload.FromNamed(values))
}

// PredictJSON classifies a decoded JSON object, applying exactly the rules
// of POST /predict: {"features": [...]} or a flat name → value object, with
// numeric strings accepted.
func (c *Client) PredictJSON(ctx context.Context, body map[string]any) (Prediction, error) {
	return c.predict(ctx, "predict_json", payload.Parse(body))
}

func (c *Client) predict(ctx context.Context, op string, p payload.Payload) (_ Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe(op, start, err) }()

	r, err := c.predictor.PredictPayload(ctx, p)
	if err != nil {
		return Prediction{}, fmt.Errorf("%s: %w", op, err)
	}
	model := c.predictor.ModelName()
	c.obs.prediction(model, r.Label())
	return Prediction{
		Label:         r.Label(),
		Probabilities: r.Probabilities(),
		ModelName:     model,
	}, nil
}
