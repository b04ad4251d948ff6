package cmd

import (
	"fmt"
	"strconv"

	"github.com/AnyUserName/photoedit/internal/encoder"
	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/profile"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List aspect presets, export profiles and adjustment ranges",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		var rows [][]string
		for _, p := range geometry.Presets {
			rows = append(rows, []string{p.Aspect.String(), p.Name})
		}
		printTable([]string{"ASPECT", "NAME"}, rows)
		fmt.Println()

		reg := encoder.NewRegistry()
		rows = rows[:0]
		for _, name := range profile.Names() {
			p := profile.Get(name)
			quality, status := strconv.Itoa(p.Quality), "yes"
			if enc := reg.Get(p.Format); enc == nil {
				status = "encoder not installed"
			} else if !enc.Lossy() {
				quality = "lossless"
			}
			rows = append(rows, []string{p.Name, p.Format, quality, status})
		}
		printTable([]string{"PROFILE", "FORMAT", "QUALITY", "AVAILABLE"}, rows)
		fmt.Println()

		rows = rows[:0]
		for _, f := range filters.Fields {
			rows = append(rows, []string{
				f.Name,
				fmt.Sprintf("%g..%g%s", f.Min, f.Max, f.Unit),
				fmt.Sprintf("%g", f.Default),
				fmt.Sprintf("%g", f.Step),
			})
		}
		rows = append(rows, []string{"grayscale", "on/off", "off", "-"})
		printTable([]string{"ADJUSTMENT", "RANGE", "DEFAULT", "STEP"}, rows)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
