package bcpredict

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	"github.com/kailas-cloud/bcpredict/internal/domain/payload"
)

// TypedPredictor predicts on structs whose fields carry `bcpredict:"<feature name>"` tags.
//
//	type Sample struct {
//	    Radius  float64 `bcpredict:"mean radius"`
//	    Texture float64 `bcpredict:"mean texture"`
//	    ...
//	}
//	tp, err := bcpredict.NewTyped[Sample](client)
//	p, err := tp.Predict(ctx, sample)
type TypedPredictor[T any] struct {
	client *Client
	meta   *schemaMeta
}

// NewTyped parses T once and checks it against the model's feature list.
// A struct that does not tag every required feature is rejected here,
// with the same MissingFeaturesError a request would get.
func NewTyped[T any](client *Client) (*TypedPredictor[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, err
	}

	tagged := meta.names()
	var missing []string
	for _, name := range client.FeatureNames() {
		if _, ok := tagged[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("bcpredict: type %s: %w", meta.typ, domain.NewMissingFeatures(missing))
	}
	return &TypedPredictor[T]{client: client, meta: meta}, nil
}

// Predict classifies a single item.
func (tp *TypedPredictor[T]) Predict(ctx context.Context, item T) (Prediction, error) {
	features, err := tp.meta.toFeatures(item)
	if err != nil {
		return Prediction{}, err
	}
	return tp.client.predict(ctx, "predict_typed", payload.FromNamed(features))
}
