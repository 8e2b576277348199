package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compliance/internal/observability"
	"github.com/jonathan/brand-compliance/internal/pipeline"
	"github.com/jonathan/brand-compliance/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a document against a brand profile",
	Long:  "Evaluates every element of a design document against the brand profile and prints the violations and compliance score as JSON.",
	RunE:  runEvaluate,
}

var (
	evaluateDocumentFile string
	evaluateProfileFile  string
	evaluateOutputFile   string
	evaluateSave         bool
	evaluateSources      sourceFlags
)

// evaluationOutput is the evaluate command's JSON output
type evaluationOutput struct {
	EvaluationID string `json:"evaluationId,omitempty"`
	*types.EvaluationResult
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateDocumentFile, "document", "d", "", "Path to document JSON/YAML file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateProfileFile, "profile", "p", "", "Path to brand profile JSON/YAML file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateOutputFile, "out", "o", "", "Output file (default stdout)")
	evaluateCmd.Flags().BoolVar(&evaluateSave, "save", false, "Store the result in PostgreSQL (requires a database URL)")
	addSourceFlags(evaluateCmd, &evaluateSources)

	_ = evaluateCmd.MarkFlagRequired("document")
	_ = evaluateCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(evaluateCmd)
}

func addSourceFlags(cmd *cobra.Command, flags *sourceFlags) {
	cmd.Flags().StringVarP(&flags.guidelinesFile, "guidelines", "g", "", "Guideline YAML/JSON file")
	cmd.Flags().StringVar(&flags.sqlitePath, "sqlite", "", "Guideline SQLite database")
	cmd.Flags().StringVar(&flags.databaseURL, "db-url", "", "PostgreSQL URL (overrides DATABASE_URL)")
	cmd.Flags().BoolVar(&flags.noAdvisory, "no-advisory", false, "Disable the text advisory service")
	cmd.MarkFlagsMutuallyExclusive("guidelines", "sqlite", "db-url")
}

// progressLogger reports pipeline steps at debug level
func progressLogger(event pipeline.ProgressEvent) {
	logger.Debug(event.Message, zap.String("step", event.Step), zap.String("document_id", event.DocumentID))
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(evaluateSources)
	if err != nil {
		return err
	}
	if evaluateSave && cfg.DatabaseURL == "" {
		return fmt.Errorf("--save requires a database URL (--db-url or DATABASE_URL)")
	}

	doc, profile, err := readEvaluationInputs(evaluateDocumentFile, evaluateProfileFile, cfg)
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

	output := evaluationOutput{EvaluationResult: result}
	if evaluateSave {
		brandID := doc.BrandID
		if brandID == "" {
			brandID = profile.BrandID
		}
		id, err := b.database.SaveEvaluation(ctx, brandID, result)
		if err != nil {
			return fmt.Errorf("failed to save evaluation: %w", err)
		}
		output.EvaluationID = id.String()
	}

	if verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintViolations(result.Violations)
		printer.PrintScore(result)
	}

	return writeOutput(cmd.OutOrStdout(), evaluateOutputFile, "evaluation_result.schema.json", output)
}
