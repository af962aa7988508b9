package chi

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidBody         = "invalid_body"
	CodeMalformedShape      = "malformed_shape"
	CodeInvalidFeatureValue = "invalid_feature_value"
	CodeMissingFeatures     = "missing_features"
	CodeModelInference      = "model_inference_error"
	CodeRateLimited         = "rate_limited"
	CodeNotFound            = "not_found"
	CodeMethodNotAllowed    = "method_not_allowed"
	CodeInternal            = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Detail  string   `json:"detail"`
	Missing []string `json:"missing,omitempty"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// PredictResponse is the body of a successful POST /predict.
type PredictResponse struct {
	PredictedLabel int       `json:"predicted_label"`
	PredictedProba []float64 `json:"predicted_proba"`
	ModelName      string    `json:"model_name"`
}

// ModelResponse describes the served model.
type ModelResponse struct {
	ModelName    string   `json:"model_name"`
	FeatureNames []string `json:"feature_names"`
	NFeatures    int      `json:"n_features"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
