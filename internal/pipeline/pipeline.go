// Package pipeline applies one edit recipe to every image in a directory.
//
// Images are processed by a bounded pool of workers. Each image gets its own
// editor session, so the single-threaded rendering model holds per image
// and no editing state is shared between workers.
package pipeline

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/photoedit/internal/encoder"
	"github.com/AnyUserName/photoedit/internal/manifest"
	"github.com/AnyUserName/photoedit/internal/recipe"
	"github.com/AnyUserName/photoedit/internal/render"
	"golang.org/x/sync/errgroup"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir      string
	OutputDir     string
	Recipe        *recipe.Recipe
	RecipePath    string // recorded in the manifest
	Workers       int
	Verbose       bool
	NoRegressSize bool // drop outputs larger than their source file
}

// Pipeline orchestrates a batch run.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	render   *render.Pipeline
}

// New creates a configured pipeline. A nil recipe leaves images unchanged.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Recipe == nil {
		cfg.Recipe = recipe.New()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		render:   render.New(),
	}
}

// Run edits every image and returns the manifest. Individual failures are
// reported and skipped; the run fails only if every image failed.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[photoedit] %s\n", p.registry.String())
	}

	prof := p.cfg.Recipe.Profile()
	if _, err := p.registry.Resolve(prof.Format); err != nil {
		return nil, err
	}

	inputs, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[photoedit] found %d images\n", len(inputs))
	}

	results := make([]processResult, len(inputs))
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[photoedit] editing: %s\n", in.Key)
			}

			results[i] = processImage(in, p.cfg, p.registry, p.render)

			if o := results[i].entry.Output; p.cfg.Verbose && results[i].err == nil && o != nil {
				fmt.Fprintf(os.Stderr, "[photoedit] done: %s -> %s (%dx%d)\n", in.Key, o.Path, o.Width, o.Height)
			}
			// Failures are per image and collected below.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := manifest.New(prof.Name)
	m.Format = prof.Format
	m.Quality = prof.Quality
	m.Recipe = p.cfg.RecipePath

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Images[r.key] = r.entry
		if r.skipped {
			m.Stats.SkippedRegress++
		}
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[photoedit] error: %v\n", e)
		}
		if len(errs) == len(inputs) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[photoedit] warning: %d of %d images had errors\n",
			len(errs), len(inputs))
	}

	m.RunInfo = &manifest.RunInfo{Workers: p.cfg.Workers}
	m.ComputeStats()
	return m, nil
}
