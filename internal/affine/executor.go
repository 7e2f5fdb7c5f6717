package affine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
)

// ErrNested is returned when Run is invoked from inside another affine
// worker. Nesting would deadlock the caller against its own thread budget,
// so it is rejected outright.
var ErrNested = errors.New("affine: nested executor invocation")

// TimeoutError reports that a worker did not complete within its budget.
// The worker itself is abandoned, never killed; its eventual result is
// discarded.
type TimeoutError struct {
	Budget time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("affine: worker exceeded %s budget", e.Budget)
}

// IsTimeout reports whether err is (or wraps) an affine timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Func is the unit of work handed to an executor. It receives a context
// marked as running inside an affine worker.
type Func func(ctx context.Context) (any, error)

// Executor schedules a function onto a thread-affine worker and joins it
// with a timeout.
type Executor interface {
	Run(ctx context.Context, budget time.Duration, fn Func) (any, error)
}

type workerKey struct{}

// InWorker reports whether ctx belongs to a running affine worker.
func InWorker(ctx context.Context) bool {
	v, ok := ctx.Value(workerKey{}).(bool)
	return ok && v
}

// outcome carries the worker's result back to the caller. Panics ride along
// so they can be re-raised on the caller's goroutine with the original value.
type outcome struct {
	val      any
	err      error
	panicked bool
	panicVal any
	stack    []byte
}

// osThreadExecutor spawns one OS-locked goroutine per call.
type osThreadExecutor struct{}

// NewExecutor returns the standard per-call OS-thread executor.
func NewExecutor() Executor { return &osThreadExecutor{} }

// Run spawns a pinned worker, invokes fn on it, and blocks up to budget.
//
// On success, fn's error (if any) is returned unchanged so that errors.Is
// and errors.As round-trip; a panic inside fn is re-raised here with the
// original panic value. On timeout the worker is abandoned: the result
// channel is buffered so the worker can still deliver and exit, but the
// caller never reads it again.
func (e *osThreadExecutor) Run(ctx context.Context, budget time.Duration, fn Func) (any, error) {
	if InWorker(ctx) {
		return nil, ErrNested
	}
	logger := ctxlog.FromContext(ctx)

	resCh := make(chan outcome, 1)
	workerCtx := context.WithValue(ctx, workerKey{}, true)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var res outcome
		func() {
			defer func() {
				if r := recover(); r != nil {
					res.panicked = true
					res.panicVal = r
					res.stack = debug.Stack()
				}
			}()
			res.val, res.err = fn(workerCtx)
		}()
		resCh <- res
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case res := <-resCh:
		if res.panicked {
			logger.Debug("Affine worker panicked, re-raising on caller.", "stack", string(res.stack))
			panic(res.panicVal)
		}
		return res.val, res.err
	case <-timer.C:
		logger.Warn("Affine worker exceeded budget, abandoning.", "budget", budget)
		return nil, &TimeoutError{Budget: budget}
	case <-ctx.Done():
		logger.Debug("Caller context done while waiting on affine worker.", "cause", ctx.Err())
		return nil, ctx.Err()
	}
}
