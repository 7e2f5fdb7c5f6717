package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&Config{LogLevel: "info", LogFormat: "json"}, &buf)

	logger.Info("hello", "k", "v")
	require.Contains(t, buf.String(), `"msg":"hello"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}

func TestBuildLoggerTextIsTheDefaultFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&Config{LogLevel: "info", LogFormat: "yaml"}, &buf)

	logger.Info("hello")
	require.Contains(t, buf.String(), "msg=hello")
}

func TestBuildLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&Config{LogLevel: "error", LogFormat: "text"}, &buf)

	logger.Debug("quiet")
	logger.Info("quiet")
	require.Empty(t, buf.String())

	logger.Error("loud")
	require.Contains(t, buf.String(), "msg=loud")
}

func TestBuildLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&Config{LogLevel: "verbose", LogFormat: "text"}, &buf)

	logger.Debug("quiet")
	require.Empty(t, buf.String())

	logger.Info("shown")
	require.Contains(t, buf.String(), "msg=shown")
}
