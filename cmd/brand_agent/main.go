// Package main provides the brand_agent CLI for evaluating design documents
// against brand rules and serving the compliance API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	verbose    bool
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "brand_agent",
	Short: "Brand compliance evaluator and remediation service",
	Long: "brand_agent evaluates design documents against a brand profile, scores compliance, " +
		"suggests fixes and translates them into editor mutation commands.",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output and debug logs")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
