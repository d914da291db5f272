package service

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// ChainFailure records why one user's table was not rendered.
type ChainFailure struct {
	User string
	Err  error
}

// Report summarizes a run. Rendered lists users in the order their tables
// appear in the render container.
type Report struct {
	RunID    string
	Markers  int
	Rendered []string
	Failures []ChainFailure
}

// Err combines every chain failure, or returns nil when all chains rendered.
func (r Report) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, fmt.Errorf("user %s: %w", f.User, f.Err))
	}
	return err
}

// collector is the concurrent-safe builder behind Report.
type collector struct {
	mu     sync.Mutex
	report Report
}

func (c *collector) failed(user string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Failures = append(c.report.Failures, ChainFailure{User: user, Err: err})
}

func (c *collector) snapshot(rendered []string) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	rep := c.report
	rep.Rendered = rendered
	return rep
}
