package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/photoedit/internal/manifest"
	"github.com/AnyUserName/photoedit/internal/recipe"
	"github.com/spf13/cobra"
)

var (
	validateManifest bool
	validateSize     string
)

var validateCmd = &cobra.Command{
	Use:   "validate <recipe_path>",
	Short: "Validate an edit recipe (or, with --manifest, a batch manifest)",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateManifest, "manifest", false,
		"treat the argument as a batch manifest and check referenced files exist")
	validateCmd.Flags().StringVar(&validateSize, "size", "",
		"also check the recipe's crop against a WxH image")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path := args[0]

	var errs []string
	var summary string
	if validateManifest {
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		errs = manifest.Validate(m, filepath.Dir(path))
		summary = fmt.Sprintf("%d images, %d outputs, all files present", m.Stats.TotalImages, m.Stats.TotalOutputs)
	} else {
		r, err := recipe.Load(path)
		if err != nil {
			return err
		}
		errs = r.Validate()
		if validateSize != "" {
			v, err := parseInts(validateSize, "x", 2)
			if err != nil {
				return fmt.Errorf("--size: %w", err)
			}
			errs = append(errs, r.CheckImage(v[0], v[1])...)
		}
		prof := r.Profile()
		summary = fmt.Sprintf("exports %s at quality %d", prof.Format, prof.Quality)
	}

	if len(errs) == 0 {
		fmt.Println("  ok   valid")
		fmt.Printf("  ok   %s\n", summary)
		return nil
	}

	fmt.Printf("  FAIL %d problem(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    - %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
