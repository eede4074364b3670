package check

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/railwayhistory/raildata/internal/report"
	"github.com/railwayhistory/raildata/internal/store"
)

// Check is one semantic validator. Run must treat the store as read-only
// and must not depend on any other check's output.
type Check interface {
	Name() string
	Run(s *store.Store) []report.Finding
}

// Engine runs a registered set of checks.
type Engine struct {
	checks  []Check
	workers int
}

// NewEngine returns an engine with the given worker pool size; 0 means
// GOMAXPROCS.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{workers: workers}
}

// Register appends checks. Registration order fixes report order.
func (e *Engine) Register(checks ...Check) {
	e.checks = append(e.checks, checks...)
}

// Checks returns the registered checks in registration order.
func (e *Engine) Checks() []Check {
	return e.checks
}

// Run executes every registered check against s and returns all findings,
// tagged with their originating check's name, in registration order. A
// check that panics contributes exactly one internal-error finding and does
// not disturb the rest of the run.
func (e *Engine) Run(s *store.Store) []report.Finding {
	if !s.Resolved() {
		panic("check: engine run before resolution")
	}

	results := make([][]report.Finding, len(e.checks))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := e.workers
	if workers > len(e.checks) && len(e.checks) > 0 {
		workers = len(e.checks)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.runOne(e.checks[i], s)
			}
		}()
	}
	for i := range e.checks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var all []report.Finding
	for i, check := range e.checks {
		for _, f := range results[i] {
			if f.Check == "" {
				f.Check = check.Name()
			}
			all = append(all, f)
		}
	}
	return all
}

// runOne isolates a single check, converting a panic into one finding.
func (e *Engine) runOne(c Check, s *store.Store) (findings []report.Finding) {
	defer func() {
		if r := recover(); r != nil {
			findings = []report.Finding{{
				Severity: report.SeverityError,
				Check:    c.Name(),
				Code:     report.CodeCheckInternal,
				Message:  fmt.Sprintf("check failed internally: %v", r),
			}}
		}
	}()
	return c.Run(s)
}
