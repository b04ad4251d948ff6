// Package recipe reads and writes JSON edit recipes: a filter set, a crop
// and export settings that can be replayed on any image.
package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/AnyUserName/photoedit/internal/encoder"
	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/profile"
	"github.com/AnyUserName/photoedit/internal/session"
)

// New returns a recipe that leaves an image unchanged.
func New() *Recipe {
	return &Recipe{
		Version: SupportedVersion,
		Filters: filters.Defaults(),
		Export:  Export{Profile: profile.DefaultName},
	}
}

// Parse decodes a recipe. Filters missing from the JSON keep their defaults
// and unknown fields are ignored. Values are not clamped here so Validate
// can report them; Apply clamps.
func Parse(data []byte) (*Recipe, error) {
	r := New()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	return r, nil
}

// Load reads and parses the recipe at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return Parse(data)
}

// WriteJSON serializes the recipe to path.
func WriteJSON(r *Recipe, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// FromEditor captures the current edit of e.
func FromEditor(e *session.Editor, profileName string) *Recipe {
	r := New()
	r.Filters = e.Filters()
	if profileName != "" {
		r.Export.Profile = profileName
	}
	r.Export.Quality = e.Quality()

	if reg := e.Region(); !reg.IsFull() || !reg.Aspect.IsFree() {
		r.Crop = &Crop{X: reg.X, Y: reg.Y, Width: reg.Width, Height: reg.Height}
		if !reg.Aspect.IsFree() {
			r.Crop.Aspect = reg.Aspect.String()
		}
	}
	return r
}

// Profile resolves the export profile with the recipe's overrides applied.
func (r *Recipe) Profile() profile.Profile {
	name := r.Export.Profile
	if name == "" {
		name = profile.DefaultName
	}
	p := profile.Get(name)
	if r.Export.Format != "" {
		p.Format = r.Export.Format
	}
	if r.Export.Quality > 0 {
		p.Quality = int(math.Round(geometry.Clamp(r.Export.Quality, 1, 100)))
	}
	return p
}

// EditorOptions returns editor options carrying the recipe's load and
// export settings.
func (r *Recipe) EditorOptions() session.Options {
	return session.Options{
		ResetFiltersOnLoad: r.ResetFiltersOnLoad,
		Format:             r.Profile().Format,
	}
}

// Region resolves the crop for an imgW x imgH image. An aspect with no size
// selects the preset region; an explicit size under a locked aspect keeps
// its width and gets the matching height.
func (r *Recipe) Region(imgW, imgH int) (geometry.Region, error) {
	if r.Crop == nil {
		return geometry.Full(), nil
	}
	a, err := geometry.ParseAspect(r.Crop.Aspect)
	if err != nil {
		return geometry.Region{}, fmt.Errorf("crop: %w", err)
	}
	if !a.IsFree() && r.Crop.Width == 0 && r.Crop.Height == 0 {
		return geometry.PresetRegion(a, imgW, imgH), nil
	}
	return geometry.LockAspect(geometry.Region{
		X:      r.Crop.X,
		Y:      r.Crop.Y,
		Width:  r.Crop.Width,
		Height: r.Crop.Height,
		Aspect: a,
	}, imgW, imgH), nil
}

// Apply replays the recipe on the image loaded in e.
func (r *Recipe) Apply(e *session.Editor) error {
	src := e.Source()
	if src == nil {
		return session.ErrNoImage
	}
	region, err := r.Region(src.Width, src.Height)
	if err != nil {
		return err
	}
	if err := e.SetFilters(r.Filters); err != nil {
		return err
	}
	if err := e.SetRegion(region); err != nil {
		return err
	}
	return e.SetQuality(float64(r.Profile().Quality))
}

// Validate lists everything wrong with the recipe. An empty result means
// the recipe applies without clamping.
func (r *Recipe) Validate() []string {
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported recipe version: %d", r.Version))
	}

	errs = append(errs, r.Filters.OutOfRange()...)

	if c := r.Crop; c != nil {
		for _, f := range []struct {
			name string
			v    float64
		}{{"x", c.X}, {"y", c.Y}, {"width", c.Width}, {"height", c.Height}} {
			if math.IsNaN(f.v) || f.v < 0 || f.v > 100 {
				errs = append(errs, fmt.Sprintf("crop.%s %g outside [0, 100]", f.name, f.v))
			}
		}
		if c.X+c.Width > 100+geometry.Epsilon {
			errs = append(errs, fmt.Sprintf("crop extends past the right edge (x+width = %g)", c.X+c.Width))
		}
		if c.Y+c.Height > 100+geometry.Epsilon {
			errs = append(errs, fmt.Sprintf("crop extends past the bottom edge (y+height = %g)", c.Y+c.Height))
		}
		if _, err := geometry.ParseAspect(c.Aspect); err != nil {
			errs = append(errs, fmt.Sprintf("crop.aspect: %v", err))
		}
	}

	if name := r.Export.Profile; name != "" {
		if _, ok := profile.Lookup(name); !ok {
			errs = append(errs, fmt.Sprintf("unknown export profile %q", name))
		}
	}
	if !encoder.Known(r.Export.Format) {
		errs = append(errs, fmt.Sprintf("unknown export format %q", r.Export.Format))
	}
	if q := r.Export.Quality; math.IsNaN(q) || q < 0 || q > 100 {
		errs = append(errs, fmt.Sprintf("export.quality %g outside [0, 100]", q))
	}

	return errs
}

// CheckImage lists problems that only show up against an imgW x imgH image.
// Apply resolves them the way Region does.
func (r *Recipe) CheckImage(imgW, imgH int) []string {
	c := r.Crop
	if c == nil || c.Width <= 0 || c.Height <= 0 {
		return nil
	}
	a, err := geometry.ParseAspect(c.Aspect)
	if err != nil || a.IsFree() {
		return nil
	}
	reg := geometry.Region{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Aspect: a}
	got := geometry.PixelRatio(reg, imgW, imgH)
	if got == 0 || math.Abs(got-a.Ratio()) <= a.Ratio()*1e-3 {
		return nil
	}
	fixed := geometry.LockAspect(reg, imgW, imgH)
	return []string{fmt.Sprintf("crop %gx%g%% is %.4f:1 on a %dx%d image but aspect %s is %.4f:1; height becomes %.4g%%",
		c.Width, c.Height, got, imgW, imgH, a, a.Ratio(), fixed.Height)}
}
