package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; predictions still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the model is unavailable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentModel    = "model"
	ComponentDatabase = "database"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	model ModelChecker
	db    DBPinger
}

// New creates a Service. db can be nil when no store is configured.
func New(model ModelChecker, db DBPinger) *Service {
	return &Service{model: model, db: db}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks[ComponentDatabase] = CheckError
			status = Degraded
		} else {
			checks[ComponentDatabase] = CheckOK
		}
	}

	if err := s.model.HealthCheck(ctx); err != nil {
		checks[ComponentModel] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentModel] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
