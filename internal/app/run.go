package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grafana/codejen"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/kindgen/internal/ctxlog"
	"github.com/specialistvlad/kindgen/internal/diff"
	"github.com/specialistvlad/kindgen/internal/emit"
	"github.com/specialistvlad/kindgen/internal/synth"
)

// ErrStale reports that check mode found generated files missing or out of
// date.
var ErrStale = errors.New("generated files are out of date")

// Run synthesizes a registry for every family and either writes the rendered
// files under the output root or, in check mode, verifies them against what
// is already on disk.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if len(a.model.Families) == 0 {
		a.logger.Warn("No families found in manifests, nothing to generate.")
		return nil
	}

	a.logger.Info("🚀 Starting registry synthesis...",
		"families", len(a.model.Families), "workers", a.cfg.WorkerCount)
	defs, err := a.synthesizeAll(ctx)
	if err != nil {
		return err
	}

	files, err := emit.NewJennyList().Generate(defs...)
	if err != nil {
		return fmt.Errorf("failed to render generated files: %w", err)
	}
	a.logger.Debug("All families rendered.", "files", len(files))

	if a.cfg.Check {
		return a.verify(files)
	}
	if err := a.write(ctx, files); err != nil {
		return err
	}
	a.logger.Info("🏁 Generation finished.")
	return nil
}

// synthesizeAll builds every family's registry definition concurrently and
// returns them in manifest order.
func (a *App) synthesizeAll(ctx context.Context) ([]*synth.RegistryDef, error) {
	families := a.model.Families
	defs := make([]*synth.RegistryDef, len(families))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.WorkerCount)
	for i, f := range families {
		g.Go(func() error {
			def, err := synth.New().
				WithFamily(f).
				WithVariants(f.Variants).
				WithIntrospection(a.model.World).
				Build(gctx)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("synthesis failed: %w", err)
	}

	var warned int
	for _, def := range defs {
		for _, w := range def.Warnings {
			a.logger.Warn("Synthesis warning.", "family", w.Family, "member", w.Member, "reason", w.Reason)
			warned++
		}
	}
	if a.cfg.Strict && warned > 0 {
		return nil, fmt.Errorf("strict mode: %d synthesis warning(s) promoted to errors", warned)
	}
	return defs, nil
}

func (a *App) write(ctx context.Context, files codejen.Files) error {
	fs := codejen.NewFS()
	if err := fs.Add(files...); err != nil {
		return err
	}
	if err := fs.Write(ctx, a.cfg.OutDir); err != nil {
		return fmt.Errorf("failed to write generated files: %w", err)
	}
	a.logger.Info("Generated files written.", "count", len(files), "out", a.cfg.OutDir)
	return nil
}

// verify compares every rendered file against the output root and prints a
// diff for each mismatch.
func (a *App) verify(files codejen.Files) error {
	var stale int
	for _, f := range files {
		target := filepath.Join(a.cfg.OutDir, f.RelativePath)
		onDisk, err := os.ReadFile(target)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(a.outW, "missing: %s\n", target)
			stale++
			continue
		}
		if err != nil {
			return err
		}
		if bytes.Equal(onDisk, f.Data) {
			continue
		}
		d := diff.Compute(string(onDisk), string(f.Data), target, "generated")
		fmt.Fprint(a.outW, d.Format(false))
		stale++
	}
	if stale > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrStale, stale)
	}
	a.logger.Info("Generated files are up to date.", "count", len(files))
	return nil
}
