package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("uivalidate", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
uivalidate - A headless validation harness for themed UI control trees.

Usage:
  uivalidate [options] [MANIFEST_PATH]

Arguments:
  MANIFEST_PATH
    Path to an .hcl batch manifest describing the targets to validate.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the batch manifest file.")
	mFlag := flagSet.String("m", "", "Path to the batch manifest file (shorthand).")
	snippetFlag := flagSet.String("snippet", "", "Path to a snippet file to execute instead of a batch.")
	concurrencyFlag := flagSet.Int("concurrency", 0, "Override the manifest's concurrency limit. 0 keeps the manifest value.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop scheduling new units after the first failure.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Manifest path determined.", "path", path)

	if path == "" && *snippetFlag == "" {
		slog.Debug("No manifest or snippet provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *concurrencyFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid concurrency: must not be negative"}
	}
	slog.Debug("CLI parameter validation complete.")

	failFastSet := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "fail-fast" {
			failFastSet = true
		}
	})

	config, err := app.NewConfig(app.Config{
		ManifestPath: path,
		SnippetPath:  *snippetFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Concurrency:  *concurrencyFlag,
		FailFast:     *failFastFlag,
		FailFastSet:  failFastSet,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
