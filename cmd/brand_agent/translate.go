package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compliance/internal/observability"
	"github.com/jonathan/brand-compliance/internal/pipeline"
	"github.com/jonathan/brand-compliance/internal/types"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate fixes into updateElement commands",
	Long: "Reads a single fix or a {\"fixes\": [...]} list and prints the updateElement commands. " +
		"A single fix that cannot be translated is an error; fixes in a list that cannot be translated are skipped.",
	RunE: runTranslate,
}

var (
	translateInputFile  string
	translateOutputFile string
)

// commandsOutput is the translate command's JSON output
type commandsOutput struct {
	Commands []types.Command `json:"commands"`
}

func init() {
	translateCmd.Flags().StringVarP(&translateInputFile, "fixes", "f", "", "Path to fix or fixes JSON/YAML file (required)")
	translateCmd.Flags().StringVarP(&translateOutputFile, "out", "o", "", "Output file (default stdout)")
	_ = translateCmd.MarkFlagRequired("fixes")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, _ []string) error {
	evaluator := pipeline.NewEvaluator(pipeline.WithLogger(logger))

	// A "fixes" key selects list mode even when the list is empty
	var list types.Fixes
	if err := readInput(translateInputFile, &list); err != nil {
		return err
	}

	var commands []types.Command
	if list.Fixes != nil {
		commands = evaluator.TranslateFixes(*list.Fixes)
	} else {
		var fix types.Fix
		if err := readInput(translateInputFile, &fix); err != nil {
			return err
		}
		translated, err := evaluator.TranslateFix(fix)
		if err != nil {
			return err
		}
		commands = translated
	}

	if verbose {
		observability.NewPrinter(os.Stderr).PrintCommands(commands)
	}
	return writeOutput(cmd.OutOrStdout(), translateOutputFile, "commands.schema.json", commandsOutput{Commands: commands})
}
