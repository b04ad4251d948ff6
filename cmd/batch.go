package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/photoedit/internal/manifest"
	"github.com/AnyUserName/photoedit/internal/pipeline"
	"github.com/AnyUserName/photoedit/internal/recipe"
	"github.com/spf13/cobra"
)

var (
	batchOutDir    string
	batchRecipe    string
	batchProfile   string
	batchFormat    string
	batchQuality   float64
	batchWorkers   int
	batchNoRegress bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Apply one recipe to every image in a directory",
	Long: `Scans the input directory for images (png, jpg, jpeg, webp, gif, bmp,
tiff), edits each one with the given recipe in its own session, and
writes the results plus a manifest into the output directory.

Output filenames are content-addressed: <key>.edited.<hash>.<ext>`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./photoedit_out", "output directory")
	batchCmd.Flags().StringVarP(&batchRecipe, "recipe", "r", "", "JSON recipe to apply")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "", "export profile (overrides the recipe)")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "export format (overrides the profile)")
	batchCmd.Flags().Float64VarP(&batchQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().BoolVar(&batchNoRegress, "no-regress-size", false, "drop outputs larger than their source file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	r := recipe.New()
	if batchRecipe != "" {
		if r, err = recipe.Load(batchRecipe); err != nil {
			return err
		}
		for _, msg := range r.Validate() {
			fmt.Fprintf(os.Stderr, "[photoedit] warning: recipe: %s (clamped)\n", msg)
		}
	}
	if batchProfile != "" {
		r.Export.Profile = batchProfile
	}
	if batchFormat != "" {
		r.Export.Format = batchFormat
	}
	if batchQuality > 0 {
		r.Export.Quality = batchQuality
	}

	prof := r.Profile()
	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (format=%s, quality=%d)", prof.Name, prof.Format, prof.Quality)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Recipe:        r,
		RecipePath:    batchRecipe,
		Workers:       batchWorkers,
		Verbose:       verbose,
		NoRegressSize: batchNoRegress,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	if err := manifest.WriteJSON(m, filepath.Join(absOutput, manifest.FileName)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(m, time.Since(start))
	return nil
}

func printBatchReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("  photoedit batch complete")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Images:      %d\n", s.TotalImages)
	fmt.Printf("  Outputs:     %d\n", s.TotalOutputs)
	fmt.Printf("  Profile:     %s (%s q=%d)\n", m.Profile, m.Format, m.Quality)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		fmt.Printf("  Ratio:       %.1f%% of original\n", float64(s.TotalOutputBytes)/float64(s.TotalInputBytes)*100)
	}
	if s.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d outputs (larger than original)\n", s.SkippedRegress)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.RunInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.RunInfo.Workers)
	}
	fmt.Println()

	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return m.Images[keys[i]].Source.Size > m.Images[keys[j]].Source.Size
	})
	if n := min(len(keys), 10); n > 0 {
		fmt.Printf("  Top %d largest sources:\n", n)
		var rows [][]string
		for _, k := range keys[:n] {
			e := m.Images[k]
			out, size := "skipped", "-"
			if e.Output != nil {
				out = fmt.Sprintf("%dx%d", e.Output.Width, e.Output.Height)
				size = formatBytes(e.Output.Size)
			}
			rows = append(rows, []string{
				truncKey(k, 40),
				fmt.Sprintf("%dx%d", e.Source.Width, e.Source.Height),
				formatBytes(e.Source.Size),
				out,
				size,
			})
		}
		printTable([]string{"IMAGE", "SOURCE", "SIZE", "OUTPUT", "SIZE"}, rows)
		fmt.Println()
	}

	fmt.Printf("  Manifest:    %s\n", manifest.FileName)
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
