package health

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds each check.
const DefaultTimeout = 5 * time.Second

// Report is one named result.
type Report struct {
	Name    string `json:"name" yaml:"name"`
	*Result `yaml:",inline"`
}

// Manager coordinates health checks and aggregates results.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager; timeout <= 0 means DefaultTimeout.
func NewManager(timeout time.Duration, checkers ...Checker) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{checkers: checkers, timeout: timeout}
}

// Add registers more checkers.
func (m *Manager) Add(checkers ...Checker) {
	m.checkers = append(m.checkers, checkers...)
}

// Run executes every check in parallel, each under the manager timeout,
// and returns the reports in registration order. A check that returns nil
// or overruns its deadline is reported unhealthy.
func (m *Manager) Run(ctx context.Context) []Report {
	reports := make([]Report, len(m.checkers))

	var wg sync.WaitGroup
	for i, c := range m.checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			result := c.Check(checkCtx)
			if result == nil {
				result = Unhealthy("check returned no result")
			}
			if checkCtx.Err() == context.DeadlineExceeded && result.Status == StatusHealthy {
				result = Unhealthy("timed out after " + m.timeout.String())
			}
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}
			reports[i] = Report{Name: c.Name(), Result: result}
		}()
	}
	wg.Wait()
	return reports
}

// Overall is unhealthy if any report is, degraded if any is, otherwise
// healthy. No reports count as healthy.
func Overall(reports []Report) Status {
	degraded := false
	for _, r := range reports {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			degraded = true
		}
	}
	if degraded {
		return StatusDegraded
	}
	return StatusHealthy
}
