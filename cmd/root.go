// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-trends",
	Short: "A CLI tool to show GitHub repository traffic trends.",
	Long: `github-trends is a CLI tool that shows the traffic of a GitHub repository:
daily views, unique views, clones, unique clones and the running star count.
Traffic statistics require push access to the repository.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ./.github-trends.yaml or $HOME/.config/github-trends/.github-trends.yaml)")
}
