package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "photoedit",
	Short: "Non-destructive photo editing from the command line",
	Long: `photoedit applies color adjustments, blur, transparency and
aspect-locked crops to photos, then exports a compressed copy at the
source's full resolution. The original file is never modified.

Edits can be given as flags or saved as JSON recipes and replayed on a
whole directory.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"photoedit %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[photoedit] "+format+"\n", args...)
	}
}
