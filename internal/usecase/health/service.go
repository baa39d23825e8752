// Package health reports liveness plus per-dependency checks.
package health

import (
	"context"
	"time"
)

// Status is the liveness status. The process answering means it is live.
type Status string

// Healthy is the only liveness status.
const Healthy Status = "ok"

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckUnavailable indicates a component that failed to start.
	CheckUnavailable CheckResult = "unavailable"
)

const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	search    Pinger
	embedding EmbeddingChecker
}

// New creates a Service. Either checker may be nil.
func New(search Pinger, embedding EmbeddingChecker) *Service {
	return &Service{search: search, embedding: embedding}
}

// Check runs health checks against all components. Failures are reported
// in Checks and never change Status.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	checks := make(map[string]CheckResult, 2)

	switch {
	case s.search == nil:
		checks["search"] = CheckUnavailable
	case s.search.Ping(ctx) != nil:
		checks["search"] = CheckError
	default:
		checks["search"] = CheckOK
	}

	switch {
	case s.embedding == nil:
		checks["embedding"] = CheckUnavailable
	case s.embedding.HealthCheck(ctx) != nil:
		checks["embedding"] = CheckError
	default:
		checks["embedding"] = CheckOK
	}

	return Report{Status: Healthy, Checks: checks}
}
