package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compliance/internal/observability"
	"github.com/jonathan/brand-compliance/internal/pipeline"
	"github.com/jonathan/brand-compliance/internal/types"
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Evaluate a document and suggest fixes",
	Long: "Evaluates a document, synthesizes at most one fix per violation from the brand and industry " +
		"guidelines, and translates the auto-fixable ones into updateElement commands. Commands are printed, never applied.",
	RunE: runFix,
}

var (
	fixDocumentFile string
	fixProfileFile  string
	fixOutputFile   string
	fixSources      sourceFlags
)

// fixOutput is the fix command's JSON output
type fixOutput struct {
	Evaluation *types.EvaluationResult `json:"evaluation"`
	Fixes      []types.Fix             `json:"fixes"`
	Commands   []types.Command         `json:"commands"`
}

func init() {
	fixCmd.Flags().StringVarP(&fixDocumentFile, "document", "d", "", "Path to document JSON/YAML file (required)")
	fixCmd.Flags().StringVarP(&fixProfileFile, "profile", "p", "", "Path to brand profile JSON/YAML file (required)")
	fixCmd.Flags().StringVarP(&fixOutputFile, "out", "o", "", "Output file (default stdout)")
	addSourceFlags(fixCmd, &fixSources)

	_ = fixCmd.MarkFlagRequired("document")
	_ = fixCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(fixSources)
	if err != nil {
		return err
	}
	doc, profile, err := readEvaluationInputs(fixDocumentFile, fixProfileFile, cfg)
	if err != nil {
		return err
	}

	evaluator, b, err := newEvaluator(ctx, cfg, pipeline.WithProgress(progressLogger))
	if err != nil {
		return err
	}
	defer b.Close()

	result, err := evaluator.EvaluateDocument(ctx, doc, profile)
	if err != nil {
		return err
	}
	fixes := evaluator.GenerateFixes(ctx, result, doc, profile)
	commands := evaluator.TranslateFixes(fixes)

	if verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintScore(result)
		printer.PrintFixes(fixes)
		printer.PrintCommands(commands)
	}

	return writeOutput(cmd.OutOrStdout(), fixOutputFile, "fixes.schema.json", fixOutput{
		Evaluation: result,
		Fixes:      fixes,
		Commands:   commands,
	})
}
