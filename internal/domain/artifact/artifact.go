package artifact

import (
	"fmt"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
)

// DefaultModelName is used when neither the artifact nor config names the model.
const DefaultModelName = "breast-cancer-rf"

// Classifier maps an ordered feature vector to class probabilities.
type Classifier interface {
	PredictProba(x []float64) ([]float64, error)
	ClassLabels() []int
	NumFeatures() int
}

// Artifact is the loaded model plus the feature order it was trained on.
// It is immutable once constructed.
type Artifact struct {
	modelName  string
	features   feature.Names
	classifier Classifier
}

// New validates that the classifier matches the feature list and is a
// binary 0/1 classifier.
func New(modelName string, features feature.Names, classifier Classifier) (*Artifact, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier is required", domain.ErrInvalidArtifact)
	}
	if features.Len() == 0 {
		return nil, fmt.Errorf("%w: feature names are required", domain.ErrInvalidArtifact)
	}
	if n := classifier.NumFeatures(); n != features.Len() {
		return nil, fmt.Errorf("%w: classifier expects %d features, artifact lists %d",
			domain.ErrInvalidArtifact, n, features.Len())
	}
	labels := classifier.ClassLabels()
	if len(labels) != 2 {
		return nil, fmt.Errorf("%w: binary classifier required, got %d classes",
			domain.ErrInvalidArtifact, len(labels))
	}
	if !(labels[0] == 0 && labels[1] == 1) && !(labels[0] == 1 && labels[1] == 0) {
		return nil, fmt.Errorf("%w: class labels must be 0 and 1, got %v",
			domain.ErrInvalidArtifact, labels)
	}
	if modelName == "" {
		modelName = DefaultModelName
	}
	return &Artifact{modelName: modelName, features: features, classifier: classifier}, nil
}

// ModelName returns the model's display name.
func (a *Artifact) ModelName() string { return a.modelName }

// FeatureNames returns the training-time feature order.
func (a *Artifact) FeatureNames() feature.Names { return a.features }

// Classifier returns the trained classifier.
func (a *Artifact) Classifier() Classifier { return a.classifier }
