package prediction

import (
	"context"

	domprediction "github.com/kailas-cloud/bcpredict/internal/domain/prediction"
)

// Cache memoizes predictions per model and resolved vector.
type Cache interface {
	Get(ctx context.Context, model string, x []float64) (domprediction.Result, bool)
	Put(ctx context.Context, model string, x []float64, r domprediction.Result)
}
