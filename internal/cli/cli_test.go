package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseManifestFromFlagAndPositional(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"--manifest", "suite.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	require.Equal(t, "suite.hcl", cfg.ManifestPath)

	cfg, _, err = Parse([]string{"-m", "short.hcl"}, &out)
	require.NoError(t, err)
	require.Equal(t, "short.hcl", cfg.ManifestPath)

	cfg, _, err = Parse([]string{"positional.hcl"}, &out)
	require.NoError(t, err)
	require.Equal(t, "positional.hcl", cfg.ManifestPath)
}

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"suite.hcl"}, &out)
	require.NoError(t, err)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Zero(t, cfg.Concurrency)
	require.False(t, cfg.FailFastSet, "absent fail-fast flag must not override the manifest")
}

func TestParseFailFastMarkedWhenGiven(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"--fail-fast", "suite.hcl"}, &out)
	require.NoError(t, err)
	require.True(t, cfg.FailFast)
	require.True(t, cfg.FailFastSet)

	cfg, _, err = Parse([]string{"--fail-fast=false", "suite.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, cfg.FailFast)
	require.True(t, cfg.FailFastSet)
}

func TestParseSnippetWithoutManifest(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"--snippet", "probe.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	require.Empty(t, cfg.ManifestPath)
	require.Equal(t, "probe.hcl", cfg.SnippetPath)
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := [][]string{
		{"--log-format", "yaml", "suite.hcl"},
		{"--log-level", "loud", "suite.hcl"},
		{"--concurrency", "-1", "suite.hcl"},
	}
	for _, args := range cases {
		var out bytes.Buffer
		_, _, err := Parse(args, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr, "args: %v", args)
		require.Equal(t, 2, exitErr.Code)
	}
}

func TestParseHelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"--help"}, &out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
}
