package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:           "tag2sha",
	Short:         "Pin GitHub Actions references to immutable commit SHAs",
	Long: `tag2sha rewrites GitHub Actions workflow files, replacing mutable
tag and branch references with immutable commit SHAs, or advancing
references to the newest available release.`,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A .env file is optional; absence is not an error.
		_ = godotenv.Load()

		if verboseFlag {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// SetVersion sets the version string for the CLI.
func SetVersion(version string) {
	rootCmd.Version = version
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// printError prints a formatted error message to stderr.
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "✗ Error: "+format+"\n", args...)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.AddCommand(pinCmd)
}
