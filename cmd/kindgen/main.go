// Package main is the entry point for the kindgen generator.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/specialistvlad/kindgen/internal/cli"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cli.SetVersion(fmt.Sprintf("%s (commit: %s)", version, commit))
	cli.Execute()
}
