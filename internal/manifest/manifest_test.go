package manifest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/testutil"
)

func TestLoadFullManifest(t *testing.T) {
	path := testutil.WriteFile(t, "batch.hcl", `
batch {
  concurrency  = 2
  fail_fast    = true
  unit_timeout = "10s"
  load_policy  = "advisory"
}

target "DataGrid" "orders" {
  theme      = "FluentDark"
  timeout    = "5s"
  categories = ["theme", "colors"]
  expect {
    width          = 640
    "color.accent" = "#0078D4"
  }
}

target "Button" "ok" {}
`)

	plan, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 2, plan.Options.Concurrency)
	require.True(t, plan.Options.FailFast)
	require.Equal(t, 10*time.Second, plan.Options.UnitTimeout)
	require.Equal(t, model.LoadAdvisory, plan.Options.LoadPolicy)

	require.Len(t, plan.Units, 2)
	want := model.UnitSpec{
		Name:   "orders",
		Target: "DataGrid",
		Expected: model.Expected{
			Theme: "FluentDark",
			// Numeric expectations flatten to strings.
			Props: map[string]string{
				"width":        "640",
				"color.accent": "#0078D4",
			},
		},
		Categories: []string{"theme", "colors"},
		Timeout:    5 * time.Second,
	}
	if diff := cmp.Diff(want, plan.Units[0]); diff != "" {
		t.Fatalf("unit mismatch (-want +got):\n%s", diff)
	}

	plain := plan.Units[1]
	require.Equal(t, "ok", plain.Name)
	require.Empty(t, plain.Expected.Theme)
	require.Zero(t, plain.Timeout)
}

func TestLoadWithoutBatchBlockUsesZeroOptions(t *testing.T) {
	path := testutil.WriteFile(t, "batch.hcl", `
target "Button" "b" {}
`)
	plan, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Zero(t, plan.Options.Concurrency)
	require.False(t, plan.Options.FailFast)
	require.Equal(t, model.LoadFatal, plan.Options.LoadPolicy)
}

func TestLoadRejectsEmptyManifest(t *testing.T) {
	path := testutil.WriteFile(t, "batch.hcl", `batch {}`)
	_, err := Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax error", `target "Button" {`},
		{"bad concurrency", "batch { concurrency = 0 }\ntarget \"Button\" \"b\" {}"},
		{"bad duration", "batch { unit_timeout = \"soon\" }\ntarget \"Button\" \"b\" {}"},
		{"bad policy", "batch { load_policy = \"maybe\" }\ntarget \"Button\" \"b\" {}"},
		{"bad target timeout", "target \"Button\" \"b\" { timeout = \"soon\" }"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "batch.hcl", tc.src)
			_, err := Load(context.Background(), path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/batch.hcl")
	require.Error(t, err)
}
