package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // hcl batch manifest
	SnippetPath  string // optional one-off snippet, runs instead of the batch

	LogFormat string
	LogLevel  string

	// Concurrency overrides the manifest's batch concurrency when > 0.
	Concurrency int
	// FailFast overrides the manifest's fail_fast when set.
	FailFast bool
	// FailFastSet records whether the fail-fast flag was given explicitly,
	// so an absent flag does not clobber the manifest value.
	FailFastSet bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" && cfg.SnippetPath == "" {
		return nil, errors.New("a manifest path or a snippet path is required")
	}

	return &cfg, nil
}
