package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bcpredict/internal/domain"
	"github.com/kailas-cloud/bcpredict/internal/domain/feature"
	"github.com/kailas-cloud/bcpredict/internal/domain/payload"
	domprediction "github.com/kailas-cloud/bcpredict/internal/domain/prediction"
	logpkg "github.com/kailas-cloud/bcpredict/internal/logger"
	"github.com/kailas-cloud/bcpredict/internal/metrics"
	healthuc "github.com/kailas-cloud/bcpredict/internal/usecase/health"
)

// Predictor is the prediction use case as seen by the transport.
type Predictor interface {
	PredictPayload(ctx context.Context, p payload.Payload) (domprediction.Result, error)
	ModelName() string
	FeatureNames() feature.Names
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options tunes the HTTP surface.
type Options struct {
	RootMessage       string
	MaxBodyBytes      int64
	RequestsPerMinute int // 0 disables rate limiting on /predict
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the prediction API.
type Server struct {
	predictor     Predictor
	health        HealthChecker
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(predictor Predictor, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	s := &Server{
		predictor: predictor,
		health:    health,
		opts:      opts,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		malformedShapeHandler,
		invalidFeatureValueHandler,
		missingFeaturesHandler,
		sentinelHandler(domain.ErrModelInference, http.StatusInternalServerError, CodeModelInference),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/model", s.Model)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if s.opts.RequestsPerMinute > 0 {
			r.Use(httprate.Limit(
				s.opts.RequestsPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
				}),
			))
		}
		r.Post("/predict", s.Predict)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{Message: s.opts.RootMessage, Status: "ok"})
}

// Predict handles POST /predict.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		s.reject(w, r, http.StatusUnprocessableEntity, CodeInvalidBody, err.Error())
		return
	}

	result, err := s.predictor.PredictPayload(r.Context(), payload.Parse(raw))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		PredictedLabel: result.Label(),
		PredictedProba: result.Probabilities(),
		ModelName:      s.predictor.ModelName(),
	})
}

// Model handles GET /model.
func (s *Server) Model(w http.ResponseWriter, _ *http.Request) {
	names := s.predictor.FeatureNames()
	writeJSON(w, http.StatusOK, ModelResponse{
		ModelName:    s.predictor.ModelName(),
		FeatureNames: names.Slice(),
		NFeatures:    names.Len(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// decodeObject reads exactly one JSON object. Numbers stay json.Number so
// integers and decimals reach the resolver unchanged.
func decodeObject(body io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New("request body too large")
		}
		return nil, errors.New("request body is not valid JSON")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("request body must contain a single JSON object")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("request body must be a JSON object")
	}
	return obj, nil
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			metrics.PredictionRejectsTotal.WithLabelValues(rejectCode(err)).Inc()
			log.Warn("prediction rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	metrics.PredictionRejectsTotal.WithLabelValues(code).Inc()
	logpkg.FromContext(r.Context()).Warn("prediction rejected",
		zap.String("code", code),
		zap.String("detail", detail),
	)
	writeError(w, status, code, detail)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Code: code, Detail: detail})
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if errors.Is(err, sentinel) {
			writeError(w, status, code, sentinel.Error())
			return true
		}
		return false
	}
}

func malformedShapeHandler(w http.ResponseWriter, err error) bool {
	var e *domain.MalformedShapeError
	if !errors.As(err, &e) {
		return false
	}
	writeError(w, http.StatusUnprocessableEntity, CodeMalformedShape, e.Error())
	return true
}

func invalidFeatureValueHandler(w http.ResponseWriter, err error) bool {
	var e *domain.InvalidFeatureValueError
	if !errors.As(err, &e) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeInvalidFeatureValue, e.Error())
	return true
}

func missingFeaturesHandler(w http.ResponseWriter, err error) bool {
	var e *domain.MissingFeaturesError
	if !errors.As(err, &e) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeMissingFeatures,
		Detail:  e.Error(),
		Missing: e.Missing,
	})
	return true
}

func rejectCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedShape):
		return CodeMalformedShape
	case errors.Is(err, domain.ErrInvalidFeatureValue):
		return CodeInvalidFeatureValue
	case errors.Is(err, domain.ErrMissingFeatures):
		return CodeMissingFeatures
	case errors.Is(err, domain.ErrModelInference):
		return CodeModelInference
	default:
		return CodeInternal
	}
}
