package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl manifest files or directories
	OutDir        string   // root the generated files land under

	Check  bool // verify files on disk instead of writing them
	Strict bool // promote synthesis warnings to errors

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("ManifestPaths is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, errors.New("WorkerCount must be at least 1")
	}

	return &cfg, nil
}
