// Package manifest loads declarative batch manifests: HCL files naming the
// targets to validate, their expected configuration, and the batch options.
//
// A manifest looks like:
//
//	batch {
//	  concurrency  = 2
//	  fail_fast    = true
//	  unit_timeout = "10s"
//	  load_policy  = "fatal"
//	}
//
//	target "DataGrid" "orders" {
//	  theme      = "FluentDark"
//	  categories = ["theme", "colors"]
//	  expect {
//	    width = "640"
//	    "color.accent" = "#0078D4"
//	  }
//	}
package manifest

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/batch"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
)

// Plan is a loaded manifest, ready to hand to the orchestrator.
type Plan struct {
	Units   []model.UnitSpec
	Options batch.Options
}

type fileSchema struct {
	Batch   *batchSchema   `hcl:"batch,block"`
	Targets []targetSchema `hcl:"target,block"`
}

type batchSchema struct {
	Concurrency *int    `hcl:"concurrency,optional"`
	FailFast    *bool   `hcl:"fail_fast,optional"`
	UnitTimeout *string `hcl:"unit_timeout,optional"`
	LoadPolicy  *string `hcl:"load_policy,optional"`
}

type targetSchema struct {
	Type       string        `hcl:"type,label"`
	Name       string        `hcl:"name,label"`
	Theme      *string       `hcl:"theme,optional"`
	Timeout    *string       `hcl:"timeout,optional"`
	Categories []string      `hcl:"categories,optional"`
	Expect     *expectSchema `hcl:"expect,block"`
}

type expectSchema struct {
	Remain hcl.Body `hcl:",remain"`
}

// Load parses one manifest file into a Plan.
func Load(ctx context.Context, path string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, diags)
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, diags)
	}
	if len(raw.Targets) == 0 {
		return nil, fmt.Errorf("manifest %s declares no targets", path)
	}

	plan := &Plan{}
	if err := applyBatchOptions(&plan.Options, raw.Batch); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	for _, t := range raw.Targets {
		unit, err := buildUnit(t)
		if err != nil {
			return nil, fmt.Errorf("manifest %s, target %q %q: %w", path, t.Type, t.Name, err)
		}
		plan.Units = append(plan.Units, unit)
	}

	logger.Debug("Manifest loaded.", "path", path, "targets", len(plan.Units))
	return plan, nil
}

func applyBatchOptions(opts *batch.Options, b *batchSchema) error {
	if b == nil {
		return nil
	}
	if b.Concurrency != nil {
		if *b.Concurrency < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", *b.Concurrency)
		}
		opts.Concurrency = *b.Concurrency
	}
	if b.FailFast != nil {
		opts.FailFast = *b.FailFast
	}
	if b.UnitTimeout != nil {
		d, err := time.ParseDuration(*b.UnitTimeout)
		if err != nil {
			return fmt.Errorf("unit_timeout: %w", err)
		}
		opts.UnitTimeout = d
	}
	if b.LoadPolicy != nil {
		switch *b.LoadPolicy {
		case "fatal":
			opts.LoadPolicy = model.LoadFatal
		case "advisory":
			opts.LoadPolicy = model.LoadAdvisory
		default:
			return fmt.Errorf("load_policy must be 'fatal' or 'advisory', got %q", *b.LoadPolicy)
		}
	}
	return nil
}

func buildUnit(t targetSchema) (model.UnitSpec, error) {
	unit := model.UnitSpec{
		Name:       t.Name,
		Target:     t.Type,
		Categories: t.Categories,
	}
	if t.Theme != nil {
		unit.Expected.Theme = *t.Theme
	}
	if t.Timeout != nil {
		d, err := time.ParseDuration(*t.Timeout)
		if err != nil {
			return unit, fmt.Errorf("timeout: %w", err)
		}
		unit.Timeout = d
	}
	if t.Expect != nil {
		props, err := decodeExpectations(t.Expect.Remain)
		if err != nil {
			return unit, err
		}
		unit.Expected.Props = props
	}
	return unit, nil
}

// decodeExpectations flattens the expect block's free-form attributes into
// string expectations.
func decodeExpectations(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("expect block: %w", diags)
	}
	props := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("expect %s: %w", name, diags)
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("expect %s: %w", name, err)
		}
		props[name] = str.AsString()
	}
	return props, nil
}
