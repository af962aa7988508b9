package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	domart "github.com/kailas-cloud/bcpredict/internal/domain/artifact"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
	"github.com/kailas-cloud/bcpredict/internal/forest"
)

// document is the persisted artifact layout.
type document struct {
	ModelName    string        `json:"model_name,omitempty"`
	FeatureNames []string      `json:"feature_names"`
	Model        *forest.Model `json:"model"`
}

// Decode parses a persisted artifact. fallbackName is used when the
// document carries no model name.
func Decode(data []byte, fallbackName string) (*domart.Artifact, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrInvalidArtifact, err)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("%w: model is missing", domain.ErrInvalidArtifact)
	}
	if err := doc.Model.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	names, err := feature.NewNames(doc.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}

	name := doc.ModelName
	if name == "" {
		name = fallbackName
	}
	return domart.New(name, names, doc.Model)
}

// Encode serializes a trained model with its feature order.
func Encode(modelName string, names feature.Names, model *forest.Model) ([]byte, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if model.NFeatures != names.Len() {
		return nil, fmt.Errorf("model expects %d features, got %d names", model.NFeatures, names.Len())
	}
	return json.Marshal(document{
		ModelName:    modelName,
		FeatureNames: names.Slice(),
		Model:        model,
	})
}
