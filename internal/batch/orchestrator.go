package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/affine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/teardown"
)

// DefaultConcurrency bounds simultaneous affine executions when the
// options carry no limit.
const DefaultConcurrency = 4

// DefaultUnitTimeout bounds a unit whose spec carries no budget.
const DefaultUnitTimeout = 30 * time.Second

// Check is one category check: it inspects a constructed target against
// the expected configuration and returns any violations.
type Check func(ctx context.Context, target *resolve.Constructed, expected model.Expected) []model.Violation

// CheckSet maps category names to checks.
type CheckSet map[string]Check

// Loader applies a unit's expected configuration to a freshly constructed
// instance during the load phase.
type Loader interface {
	Load(ctx context.Context, target *resolve.Constructed, expected model.Expected) error
}

// Options configures one batch run.
type Options struct {
	// Concurrency caps simultaneously active units. Zero means
	// DefaultConcurrency.
	Concurrency int
	// FailFast skips units not yet scheduled once any unit fails.
	FailFast bool
	// LoadPolicy decides whether a failed load phase is fatal for the
	// unit or recorded as a violation.
	LoadPolicy model.LoadPolicy
	// UnitTimeout is the default per-unit budget.
	UnitTimeout time.Duration
}

// Orchestrator runs validation units.
type Orchestrator struct {
	resolver *resolve.Resolver
	exec     affine.Executor
	releaser *teardown.Coordinator
	loader   Loader
	checks   CheckSet
}

// New wires an Orchestrator.
func New(resolver *resolve.Resolver, exec affine.Executor, releaser *teardown.Coordinator, loader Loader, checks CheckSet) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		exec:     exec,
		releaser: releaser,
		loader:   loader,
		checks:   checks,
	}
}

// Run executes every unit under the concurrency limit and returns the
// aggregate. Unit failures land in the summary, never in the returned
// error; the error return is reserved for caller cancellation.
func (o *Orchestrator) Run(ctx context.Context, units []model.UnitSpec, opts Options) (*model.Summary, error) {
	logger := ctxlog.FromContext(ctx)
	conc := opts.Concurrency
	if conc <= 0 {
		conc = DefaultConcurrency
	}

	logger.Info("🚀 Starting batch run.", "units", len(units), "concurrency", conc, "fail_fast", opts.FailFast)
	start := time.Now()

	sem := semaphore.NewWeighted(int64(conc))
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		cancelled atomic.Bool
	)
	summary := &model.Summary{}

	record := func(res model.UnitResult) {
		mu.Lock()
		defer mu.Unlock()
		summary.Count(res)
	}

	for _, spec := range units {
		// Acquiring a slot blocks the scheduling loop only; workers are
		// never blocked on each other.
		if err := sem.Acquire(ctx, 1); err != nil {
			record(skipped(spec, "batch aborted: "+err.Error()))
			continue
		}

		// The fail-fast check happens here, at the scheduling boundary.
		// In-flight workers cannot be preempted and run to completion.
		if cancelled.Load() {
			sem.Release(1)
			logger.Warn("Skipping unit, fail-fast cancellation is active.", "unit", unitName(spec))
			record(skipped(spec, "skipped by fail-fast cancellation"))
			continue
		}

		wg.Add(1)
		go func(spec model.UnitSpec) {
			defer wg.Done()
			defer sem.Release(1)

			res := o.runUnit(ctx, spec, opts)
			if opts.FailFast && !res.Passed() && res.Status != model.StatusCancelled {
				cancelled.Store(true)
			}
			record(res)
		}(spec)
	}

	wg.Wait()
	summary.Wall = time.Since(start)

	logger.Info("🏁 Batch run finished.",
		"passed", summary.Passed,
		"failed", summary.Failed,
		"timed_out", summary.TimedOut,
		"cancelled", summary.Cancelled,
		"wall", summary.Wall,
	)
	return summary, ctx.Err()
}

// skipped builds the terminal record for a unit that never ran.
func skipped(spec model.UnitSpec, msg string) model.UnitResult {
	return model.UnitResult{
		Name:    unitName(spec),
		Target:  spec.Target,
		Status:  model.StatusCancelled,
		Message: msg,
	}
}

func unitName(spec model.UnitSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return spec.Target
}
