package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/affine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/batch"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/checks"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/controls"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/engine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/teardown"
)

const summaryRounding = time.Millisecond

// Run executes the main application logic based on the loaded configuration:
// either a one-off snippet or the full batch plan.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	exec := affine.NewExecutor()

	if a.config.SnippetPath != "" {
		return a.runSnippet(ctx, exec)
	}
	return a.runBatch(ctx, exec)
}

func (a *App) runSnippet(ctx context.Context, exec affine.Executor) error {
	eng := engine.New(a.registry, exec, engine.NewStore())

	a.logger.Info("🚀 Executing snippet...", "path", a.config.SnippetPath)
	res, err := eng.Execute(ctx, engine.Request{SourcePath: a.config.SnippetPath})
	if err != nil {
		return fmt.Errorf("snippet execution failed: %w", err)
	}

	if res.Output != "" {
		fmt.Fprint(a.outW, res.Output)
	}
	if !res.OK {
		return fmt.Errorf("snippet failed (%s): %w", res.Kind, res.Err)
	}
	fmt.Fprintf(a.outW, "result: %v\n", res.GoValue)
	a.logger.Info("🏁 Snippet finished.", "elapsed", res.Elapsed)
	return nil
}

func (a *App) runBatch(ctx context.Context, exec affine.Executor) error {
	resolver := resolve.New(a.registry)
	releaser := teardown.New(exec)
	orch := batch.New(resolver, exec, releaser, controls.StyleLoader{}, checks.Default())

	a.logger.Info("🚀 Starting batch validation...", "units", len(a.plan.Units))
	summary, err := orch.Run(ctx, a.plan.Units, a.plan.Options)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}
	a.logger.Info("🏁 Batch finished.", "passed", summary.Passed, "failed", summary.Failed, "timed_out", summary.TimedOut, "cancelled", summary.Cancelled)

	a.printSummary(summary)
	if !summary.Ok() {
		return fmt.Errorf("%d of %d units did not pass", summary.Total()-summary.Passed, summary.Total())
	}
	return nil
}

// printSummary writes the plain-text report for one finished batch.
func (a *App) printSummary(summary *model.Summary) {
	fmt.Fprintf(a.outW, "\nBatch summary (%s wall clock)\n", summary.Wall.Round(summaryRounding))
	for i := range summary.Results {
		r := &summary.Results[i]
		mark := "PASS"
		if !r.Passed() {
			mark = string(r.Status)
		}
		fmt.Fprintf(a.outW, "  [%s] %s (%s)", mark, r.Name, r.Target)
		if r.Stage != model.StageNone {
			fmt.Fprintf(a.outW, " stage=%s", r.Stage)
		}
		if r.Message != "" {
			fmt.Fprintf(a.outW, ": %s", r.Message)
		}
		fmt.Fprintln(a.outW)
		for _, v := range r.Violations {
			fmt.Fprintf(a.outW, "      %s/%s: want %q, got %q\n", v.Category, v.Property, v.Want, v.Got)
		}
	}
	fmt.Fprintf(a.outW, "  %d passed, %d failed, %d timed out, %d cancelled\n",
		summary.Passed, summary.Failed, summary.TimedOut, summary.Cancelled)
}
