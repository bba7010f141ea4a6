package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the corpus cannot answer queries.
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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	storage StoragePinger
	corpus  CorpusChecker
}

// New creates a Service. storage can be nil.
func New(corpus CorpusChecker, storage StoragePinger) *Service {
	return &Service{corpus: corpus, storage: storage}
}

// Check runs health checks against all components. A corpus that cannot
// answer queries makes the service unhealthy; a storage failure alone only
// degrades it, since the resident corpus keeps serving.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	corpusOK := s.corpus.Available()
	if corpusOK {
		checks["corpus"] = CheckOK
	} else {
		checks["corpus"] = CheckError
	}

	status := Healthy
	if s.storage != nil {
		if err := s.storage.Ping(ctx); err != nil {
			checks["storage"] = CheckError
			status = Degraded
		} else {
			checks["storage"] = CheckOK
		}
	}
	if !corpusOK {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
