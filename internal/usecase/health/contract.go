package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks that the model artifact is loaded.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
