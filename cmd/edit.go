package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AnyUserName/photoedit/internal/export"
	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/gesture"
	"github.com/AnyUserName/photoedit/internal/recipe"
	"github.com/AnyUserName/photoedit/internal/session"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

var (
	editOutDir     string
	editRecipe     string
	editSaveRecipe string
	editProfile    string
	editFormat     string
	editQuality    float64
	editCrop       string
	editAspect     string
	editDrag       string
	editMove       string
	editPreview    string
	editGrayscale  bool
	editFilters    = map[string]*float64{}
)

// gestureBox maps gesture flags, given in percent, onto a 100x100 client box
// so pointer coordinates and percents coincide.
var gestureBox = gesture.Box{Width: 100, Height: 100}

var editCmd = &cobra.Command{
	Use:   "edit <image>",
	Short: "Apply adjustments and a crop to one image and export it",
	Long: `Loads an image, applies a recipe and/or adjustment flags, crops it and
writes edited-photo.<ext> into the output directory at the source's full
resolution.

Crop geometry is in percent of the image:
  --crop 10,10,50,50     explicit region x,y,width,height
  --aspect 16:9          largest centered region of that aspect
  --drag 10,10:40,60     replays a free-form drag from one corner to another
  --move 5,-3            replays dragging an aspect-locked region by dx,dy`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	f := editCmd.Flags()
	f.StringVarP(&editOutDir, "out", "o", ".", "output directory")
	f.StringVarP(&editRecipe, "recipe", "r", "", "JSON recipe to apply before flags")
	f.StringVar(&editSaveRecipe, "save-recipe", "", "write the final edit as a recipe to this path")
	f.StringVarP(&editProfile, "profile", "p", "", "export profile (see 'photoedit presets')")
	f.StringVarP(&editFormat, "format", "f", "", "export format: jpeg, png, webp, avif")
	f.Float64VarP(&editQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	f.StringVar(&editCrop, "crop", "", "crop region x,y,w,h in percent")
	f.StringVar(&editAspect, "aspect", "", "aspect preset, e.g. 1:1, 16/9, free")
	f.StringVar(&editDrag, "drag", "", "free-form crop drag x1,y1:x2,y2 in percent")
	f.StringVar(&editMove, "move", "", "move an aspect-locked crop by dx,dy percent")
	f.StringVar(&editPreview, "preview", "", "also write a display preview fitted into WxH")
	f.BoolVar(&editGrayscale, "grayscale", false, "convert to grayscale")
	for _, fld := range filters.Fields {
		v := new(float64)
		editFilters[fld.Name] = v
		f.Float64Var(v, fld.Name, fld.Default,
			fmt.Sprintf("%s [%g, %g]%s", fld.Name, fld.Min, fld.Max, unitSuffix(fld.Unit)))
	}
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	start := time.Now()

	r := recipe.New()
	if editRecipe != "" {
		var err error
		if r, err = recipe.Load(editRecipe); err != nil {
			return err
		}
		for _, msg := range r.Validate() {
			logVerbose("recipe: %s (clamped)", msg)
		}
	}
	if editProfile != "" {
		r.Export.Profile = editProfile
	}
	if editFormat != "" {
		r.Export.Format = editFormat
	}
	if editQuality > 0 {
		r.Export.Quality = editQuality
	}

	prof := r.Profile()
	logVerbose("profile: %s (format=%s, quality=%d)", prof.Name, prof.Format, prof.Quality)

	opts := r.EditorOptions()
	opts.Verbose = verbose
	ed := session.New(opts)

	if err := ed.LoadFile(args[0]); err != nil {
		return err
	}
	src := ed.Source()
	for _, msg := range r.CheckImage(src.Width, src.Height) {
		logVerbose("recipe: %s", msg)
	}
	if err := r.Apply(ed); err != nil {
		return err
	}
	if err := applyFilterFlags(cmd, ed); err != nil {
		return err
	}
	if err := applyCropFlags(ed); err != nil {
		return err
	}
	logVerbose("filters: %s", ed.Filters().ColorChain().String())
	logVerbose("crop:    %s", ed.Region())

	if editPreview != "" {
		if err := writePreview(ed); err != nil {
			return err
		}
	}

	res, err := ed.Export()
	if err != nil {
		return err
	}
	path, err := res.Save(editOutDir)
	if err != nil {
		return err
	}

	if editSaveRecipe != "" {
		saved := recipe.FromEditor(ed, prof.Name)
		saved.Export.Format = r.Export.Format
		saved.ResetFiltersOnLoad = r.ResetFiltersOnLoad
		if err := recipe.WriteJSON(saved, editSaveRecipe); err != nil {
			return fmt.Errorf("write recipe: %w", err)
		}
		logVerbose("recipe:  %s", editSaveRecipe)
	}

	printEditReport(ed, res, path, time.Since(start))
	return nil
}

func applyFilterFlags(cmd *cobra.Command, ed *session.Editor) error {
	for _, fld := range filters.Fields {
		if !cmd.Flags().Changed(fld.Name) {
			continue
		}
		if err := ed.SetFilter(fld.Name, *editFilters[fld.Name]); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("grayscale") {
		return ed.SetGrayscale(editGrayscale)
	}
	return nil
}

// applyCropFlags applies --crop, then --aspect, then replays --drag and
// --move through the crop gesture, and finally leaves crop mode.
func applyCropFlags(ed *session.Editor) error {
	if editCrop != "" {
		v, err := parseFloats(editCrop, ",", 4)
		if err != nil {
			return fmt.Errorf("--crop: %w", err)
		}
		if err := ed.SetRegion(geometry.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}); err != nil {
			return err
		}
	}

	if editAspect != "" {
		a, err := geometry.ParseAspect(editAspect)
		if err != nil {
			return fmt.Errorf("--aspect: %w", err)
		}
		if err := ed.ApplyPreset(a); err != nil {
			return err
		}
	}

	if editDrag != "" {
		from, to, ok := strings.Cut(editDrag, ":")
		if !ok {
			return fmt.Errorf("--drag: want x1,y1:x2,y2, got %q", editDrag)
		}
		a, err := parseFloats(from, ",", 2)
		if err != nil {
			return fmt.Errorf("--drag: %w", err)
		}
		b, err := parseFloats(to, ",", 2)
		if err != nil {
			return fmt.Errorf("--drag: %w", err)
		}
		if !ed.Region().Aspect.IsFree() {
			return fmt.Errorf("--drag draws a free-form crop; use --move with an aspect lock")
		}
		if err := replay(ed, gesture.Pointer{X: a[0], Y: a[1]}, gesture.Pointer{X: b[0], Y: b[1]}); err != nil {
			return err
		}
	}

	if editMove != "" {
		d, err := parseFloats(editMove, ",", 2)
		if err != nil {
			return fmt.Errorf("--move: %w", err)
		}
		if ed.Region().Aspect.IsFree() {
			return fmt.Errorf("--move needs an aspect-locked crop (--aspect)")
		}
		if err := replay(ed, gesture.Pointer{X: 50, Y: 50}, gesture.Pointer{X: 50 + d[0], Y: 50 + d[1]}); err != nil {
			return err
		}
	}

	ed.FinishCrop()
	return nil
}

// replay presses at from, drags to to and releases.
func replay(ed *session.Editor, from, to gesture.Pointer) error {
	ed.EnterCropMode()
	if err := ed.PointerDown(from, gestureBox); err != nil {
		return err
	}
	if err := ed.PointerMove(to, gestureBox); err != nil {
		return err
	}
	ed.PointerUp()
	return nil
}

func writePreview(ed *session.Editor) error {
	v, err := parseInts(editPreview, "x", 2)
	if err != nil {
		return fmt.Errorf("--preview: %w", err)
	}
	if err := ed.Resize(v[0], v[1]); err != nil {
		return err
	}
	if err := os.MkdirAll(editOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(editOutDir, export.BaseName+".preview.png")
	if err := imaging.Save(ed.Preview(), path); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	logVerbose("preview: %s", path)
	return nil
}

func printEditReport(ed *session.Editor, res *export.Result, path string, elapsed time.Duration) {
	src := ed.Source()
	fmt.Println()
	fmt.Printf("  Source:   %s (%dx%d %s)\n", src.Name, src.Width, src.Height, src.Format)
	fmt.Printf("  Crop:     %s\n", ed.Region())
	fmt.Printf("  Filters:  %s\n", describeFilters(ed.Filters()))
	quality := "lossless"
	if res.Lossy {
		quality = fmt.Sprintf("q=%d", res.Quality)
	}
	fmt.Printf("  Output:   %s (%dx%d %s %s, %s)\n",
		path, res.Width, res.Height, res.Format, quality, formatBytes(int64(len(res.Data))))
	if res.FlattenedAlpha {
		fmt.Println("  Note:     transparency flattened onto black (format has no alpha)")
	}
	fmt.Printf("  Time:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()
}

func describeFilters(p filters.Parameters) string {
	if p.IsNeutral() {
		return "none"
	}
	var parts []string
	d := filters.Defaults()
	for _, fld := range filters.Fields {
		v, _ := p.Get(fld.Name)
		if dv, _ := d.Get(fld.Name); v != dv {
			parts = append(parts, fmt.Sprintf("%s=%g%s", fld.Name, v, fld.Unit))
		}
	}
	if p.Grayscale {
		parts = append(parts, "grayscale")
	}
	return strings.Join(parts, " ")
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}

func parseFloats(s, sep string, n int) ([]float64, error) {
	fields := strings.Split(s, sep)
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values separated by %q, got %q", n, sep, s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(s, sep string, n int) ([]int, error) {
	fields := strings.Split(strings.ToLower(s), sep)
	if len(fields) != n {
		return nil, fmt.Errorf("want %d values separated by %q, got %q", n, sep, s)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("bad size %q", f)
		}
		out[i] = v
	}
	return out, nil
}
