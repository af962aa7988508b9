package bcpredict

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	artifactPath string
	artifactData []byte

	driver   string // "valkey" or "redis"
	addrs    []string
	password string
	storeKey string

	modelName string
	cacheSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithArtifactFile loads the model artifact from a JSON file written by the trainer.
func WithArtifactFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifactPath = path
	})
}

// WithArtifactBytes uses an artifact already held in memory.
func WithArtifactBytes(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifactData = data
	})
}

// WithValkey loads the artifact from key on a Valkey instance.
func WithValkey(addr, password, key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
		c.storeKey = key
	})
}

// WithRedis loads the artifact from key on a Redis instance.
func WithRedis(addr, password, key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
		c.storeKey = key
	})
}

// WithModelName names the model when the artifact carries no name.
// Default: "breast-cancer-rf".
func WithModelName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.modelName = name
	})
}

// WithCache memoizes up to size predictions in memory. 0 disables (default).
func WithCache(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
