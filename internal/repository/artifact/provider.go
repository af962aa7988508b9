package artifact

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	domart "github.com/kailas-cloud/bcpredict/internal/domain/artifact"
)

// Provider loads the model artifact exactly once and shares it afterwards.
type Provider struct {
	source       Source
	fallbackName string
	logger       *zap.Logger

	once     sync.Once
	artifact *domart.Artifact
	err      error
}

// NewProvider creates a provider. fallbackName names the model when the artifact does not.
func NewProvider(source Source, fallbackName string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{source: source, fallbackName: fallbackName, logger: logger}
}

// Get returns the shared artifact, loading it on first call.
// A failed load is remembered; the provider never retries.
func (p *Provider) Get(ctx context.Context) (*domart.Artifact, error) {
	p.once.Do(func() {
		p.artifact, p.err = p.load(ctx)
	})
	return p.artifact, p.err
}

// HealthCheck reports whether the artifact is loaded.
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.Get(ctx)
	return err
}

func (p *Provider) load(ctx context.Context) (*domart.Artifact, error) {
	data, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artifact from %s: %w", p.source, err)
	}
	art, err := Decode(data, p.fallbackName)
	if err != nil {
		return nil, fmt.Errorf("load artifact from %s: %w", p.source, err)
	}
	p.logger.Info("Model artifact loaded",
		zap.String("source", p.source.String()),
		zap.String("model_name", art.ModelName()),
		zap.Int("n_features", art.FeatureNames().Len()),
		zap.Int("bytes", len(data)),
	)
	return art, nil
}
