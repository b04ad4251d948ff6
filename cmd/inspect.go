package cmd

import (
	"fmt"

	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/source"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Show an image's properties and where each aspect preset would crop it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	img, err := source.Load(args[0])
	if err != nil {
		return err
	}
	avg := source.AvgColor(img.Pixels)
	fmt.Println()
	fmt.Printf("  File:         %s (%s)\n", img.Name, formatBytes(img.Size))
	fmt.Printf("  Format:       %s\n", img.Format)
	fmt.Printf("  Dimensions:   %dx%d (aspect %.4f)\n", img.Width, img.Height, img.AspectRatio())
	fmt.Printf("  Alpha:        %v\n", source.HasAlpha(img.Pixels))
	fmt.Printf("  Avg color:    #%02x%02x%02x\n", avg[0], avg[1], avg[2])
	fmt.Printf("  Fingerprint:  %s\n", img.Hash)
	fmt.Println()

	var rows [][]string
	for _, p := range geometry.Presets {
		r := geometry.PresetRegion(p.Aspect, img.Width, img.Height)
		px := geometry.ToPixelRect(r, img.Width, img.Height).Bounds(img.Width, img.Height)
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%.2f,%.2f,%.2f,%.2f", r.X, r.Y, r.Width, r.Height),
			fmt.Sprintf("%dx%d", px.Dx(), px.Dy()),
			fmt.Sprintf("%d,%d", px.Min.X, px.Min.Y),
		})
	}
	printTable([]string{"PRESET", "CROP (%)", "PIXELS", "ORIGIN"}, rows)
	fmt.Println()
	return nil
}
