package prediction

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	"github.com/kailas-cloud/bcpredict/internal/domain/artifact"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
	"github.com/kailas-cloud/bcpredict/internal/domain/payload"
	domprediction "github.com/kailas-cloud/bcpredict/internal/domain/prediction"
	logpkg "github.com/kailas-cloud/bcpredict/internal/logger"
	"github.com/kailas-cloud/bcpredict/internal/metrics"
)

// Service resolves request payloads and runs the shared classifier.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	modelName  string
	resolver   *feature.Resolver
	classifier artifact.Classifier
	cache      Cache
}

// New creates a prediction service over a loaded artifact.
// The classifier is wrapped with timing and logging.
func New(art *artifact.Artifact) (*Service, error) {
	resolver, err := feature.NewResolver(art.FeatureNames())
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}
	return &Service{
		modelName:  art.ModelName(),
		resolver:   resolver,
		classifier: NewInstrumentedClassifier(art.Classifier(), art.ModelName()),
	}, nil
}

// WithCache enables prediction memoization. c may be nil.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// ModelName returns the served model's name.
func (s *Service) ModelName() string { return s.modelName }

// FeatureNames returns the required feature order.
func (s *Service) FeatureNames() feature.Names { return s.resolver.Required() }

// Resolve validates a payload and aligns it to the model's feature order.
func (s *Service) Resolve(p payload.Payload) (feature.Vector, error) {
	vec, err := s.resolver.Resolve(p)
	if err != nil {
		return feature.Vector{}, fmt.Errorf("resolve features: %w", err)
	}
	return vec, nil
}

// PredictPayload resolves p and predicts on the result.
func (s *Service) PredictPayload(ctx context.Context, p payload.Payload) (domprediction.Result, error) {
	vec, err := s.Resolve(p)
	if err != nil {
		return domprediction.Result{}, err
	}
	return s.Predict(ctx, vec)
}

// Predict runs the classifier on a resolved vector.
// Every failure wraps domain.ErrModelInference.
func (s *Service) Predict(ctx context.Context, vec feature.Vector) (domprediction.Result, error) {
	if n := s.resolver.Required().Len(); vec.Len() != n {
		return domprediction.Result{}, fmt.Errorf("%w: expected %d features, got %d",
			domain.ErrModelInference, n, vec.Len())
	}
	x := vec.Values()

	if s.cache != nil {
		if r, ok := s.cache.Get(ctx, s.modelName, x); ok {
			s.record(r)
			return r, nil
		}
	}

	proba, err := s.classifier.PredictProba(x)
	if err != nil {
		return domprediction.Result{}, fmt.Errorf("%w: %w", domain.ErrModelInference, err)
	}
	r, err := domprediction.FromProbabilities(s.classifier.ClassLabels(), proba)
	if err != nil {
		logpkg.FromContext(ctx).Error("Classifier returned an invalid distribution",
			zap.String("model", s.modelName),
			zap.Float64s("proba", proba),
			zap.Error(err),
		)
		return domprediction.Result{}, fmt.Errorf("%w: %w", domain.ErrModelInference, err)
	}

	if s.cache != nil {
		s.cache.Put(ctx, s.modelName, x, r)
	}
	s.record(r)
	return r, nil
}

func (s *Service) record(r domprediction.Result) {
	metrics.PredictionsTotal.WithLabelValues(s.modelName, strconv.Itoa(r.Label())).Inc()
}
