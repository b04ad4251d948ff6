package pipeline

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/AnyUserName/photoedit/internal/encoder"
	"github.com/AnyUserName/photoedit/internal/manifest"
	"github.com/AnyUserName/photoedit/internal/render"
	"github.com/AnyUserName/photoedit/internal/session"
	"github.com/AnyUserName/photoedit/internal/source"
)

// processResult holds the outcome of editing one input.
type processResult struct {
	key     string
	entry   manifest.Entry
	err     error
	skipped bool // output dropped because it was larger than the source
}

// processImage runs one input through its own editor session: load, apply
// the recipe, export, write.
func processImage(in Input, cfg Config, registry *encoder.Registry, pl *render.Pipeline) processResult {
	result := processResult{key: in.Key}

	opts := cfg.Recipe.EditorOptions()
	opts.Registry = registry
	opts.Pipeline = pl
	ed := session.New(opts)

	if err := ed.LoadFile(in.AbsPath); err != nil {
		result.err = fmt.Errorf("%s: %w", in.RelPath, err)
		return result
	}
	if cfg.Verbose {
		src := ed.Source()
		for _, msg := range cfg.Recipe.CheckImage(src.Width, src.Height) {
			fmt.Fprintf(os.Stderr, "[photoedit] %s: recipe: %s\n", in.Key, msg)
		}
	}
	if err := cfg.Recipe.Apply(ed); err != nil {
		result.err = fmt.Errorf("%s: apply recipe: %w", in.RelPath, err)
		return result
	}

	src := ed.Source()
	avg := source.AvgColor(src.Pixels)
	result.entry = manifest.Entry{
		Source: manifest.SourceInfo{
			Width:    src.Width,
			Height:   src.Height,
			Format:   src.Format,
			Size:     in.Size,
			HasAlpha: source.HasAlpha(src.Pixels),
			Hash:     src.Hash,
		},
		AspectRatio: src.AspectRatio(),
		AvgColor:    &avg,
	}

	res, err := ed.Export()
	if err != nil {
		result.err = fmt.Errorf("%s: %w", in.RelPath, err)
		return result
	}

	if cfg.NoRegressSize && int64(len(res.Data)) >= in.Size {
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[photoedit] skip: %s encoded %d >= original %d bytes\n",
				in.Key, len(res.Data), in.Size)
		}
		result.skipped = true
		return result
	}

	// key.edited.hash.ext next to where the source sat in the input tree.
	fileName := fmt.Sprintf("%s.edited.%s.%s", path.Base(in.Key), res.Hash[:8], res.Extension)
	relPath := path.Join(path.Dir(in.Key), fileName)
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create %s: %w", filepath.Dir(outPath), err)
		return result
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.entry.Output = &manifest.Output{
		Format:         res.Format,
		Width:          res.Width,
		Height:         res.Height,
		Size:           int64(len(res.Data)),
		Hash:           res.Hash,
		PixelHash:      res.PixelHash,
		Path:           relPath,
		FlattenedAlpha: res.FlattenedAlpha,
	}
	return result
}
