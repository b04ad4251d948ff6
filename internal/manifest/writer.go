package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// New creates an empty manifest with defaults and a fresh run ID.
func New(profileName string) *Manifest {
	m := &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Images:      make(map[string]Entry),
	}
	if id, err := uuid.NewV7(); err == nil {
		m.RunID = id.String()
	}
	return m
}

// ComputeStats recalculates aggregate statistics from the entries. The
// skipped counter is kept since it is not derivable from the entries alone.
func (m *Manifest) ComputeStats() {
	s := Stats{SkippedRegress: m.Stats.SkippedRegress}
	s.TotalImages = len(m.Images)
	for _, e := range m.Images {
		s.TotalInputBytes += e.Source.Size
		if e.Output != nil {
			s.TotalOutputs++
			s.TotalOutputBytes += e.Output.Size
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Validate checks the manifest for consistency and that every referenced
// output exists under baseDir with the recorded size.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]string{}
	outputs := 0
	for key, e := range m.Images {
		if e.Source.Width <= 0 || e.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid source dimensions %dx%d",
				key, e.Source.Width, e.Source.Height))
		}
		if e.AspectRatio <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid aspect ratio %.4f", key, e.AspectRatio))
		}

		o := e.Output
		if o == nil {
			continue
		}
		outputs++
		if o.Format == "" {
			errs = append(errs, fmt.Sprintf("image %q: empty output format", key))
		}
		if o.Width <= 0 || o.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid output dimensions %dx%d", key, o.Width, o.Height))
		}
		if o.Width > e.Source.Width || o.Height > e.Source.Height {
			errs = append(errs, fmt.Sprintf("image %q: output %dx%d larger than source %dx%d",
				key, o.Width, o.Height, e.Source.Width, e.Source.Height))
		}
		if o.Hash == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing hash", key))
		}
		if o.Path == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing path", key))
			continue
		}
		if other, dup := seenPaths[o.Path]; dup {
			errs = append(errs, fmt.Sprintf("image %q: path %q already used by %q", key, o.Path, other))
		}
		seenPaths[o.Path] = key

		info, err := os.Stat(filepath.Join(baseDir, o.Path))
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: file not found: %s", key, o.Path))
		} else if o.Size > 0 && info.Size() != o.Size {
			errs = append(errs, fmt.Sprintf("image %q: size mismatch: manifest=%d, disk=%d",
				key, o.Size, info.Size()))
		}
	}

	if m.Stats.TotalImages != len(m.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", m.Stats.TotalImages, len(m.Images)))
	}
	if m.Stats.TotalOutputs != outputs {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputs))
	}

	return errs
}
