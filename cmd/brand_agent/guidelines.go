package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compliance/internal/db"
	"github.com/jonathan/brand-compliance/internal/fetch"
	"github.com/jonathan/brand-compliance/internal/guidelines"
)

var guidelinesCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Manage brand and industry guideline data",
}

var guidelinesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a guideline file into SQLite or PostgreSQL",
	Long: "Loads a YAML or JSON guideline file (or fetches one with --url) and upserts its brands and " +
		"industry standards into the SQLite database given by --sqlite, or PostgreSQL when a database URL is configured.",
	RunE: runGuidelinesImport,
}

var (
	importFile        string
	importURL         string
	importSQLitePath  string
	importDatabaseURL string
)

func init() {
	guidelinesImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "Guideline YAML/JSON file")
	guidelinesImportCmd.Flags().StringVar(&importURL, "url", "", "Fetch the guideline document from an http(s) URL")
	guidelinesImportCmd.Flags().StringVar(&importSQLitePath, "sqlite", "", "SQLite database to import into")
	guidelinesImportCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "PostgreSQL URL (overrides DATABASE_URL)")
	guidelinesImportCmd.MarkFlagsOneRequired("file", "url")
	guidelinesImportCmd.MarkFlagsMutuallyExclusive("file", "url")
	guidelinesImportCmd.MarkFlagsMutuallyExclusive("sqlite", "db-url")

	guidelinesCmd.AddCommand(guidelinesImportCmd)
	rootCmd.AddCommand(guidelinesCmd)
}

func runGuidelinesImport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	g, source, err := loadGuidelines(ctx)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(sourceFlags{sqlitePath: importSQLitePath, databaseURL: importDatabaseURL, noAdvisory: true})
	if err != nil {
		return err
	}

	switch selectSource(cfg) {
	case sourceSQLite:
		store, err := guidelines.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck
		if err := store.Import(ctx, *g); err != nil {
			return err
		}
	case sourcePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := database.ImportGuidelines(ctx, *g); err != nil {
			return err
		}
	default:
		return fmt.Errorf("no import target: pass --sqlite or --db-url, or set DATABASE_URL")
	}

	logger.Info("guidelines imported",
		zap.String("source", source),
		zap.Int("brands", len(g.Brands)),
		zap.Int("industries", len(g.Industries)))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d brands and %d industries\n", len(g.Brands), len(g.Industries))
	return err
}

func loadGuidelines(ctx context.Context) (*guidelines.Guidelines, string, error) {
	if importURL == "" {
		g, err := guidelines.LoadFile(importFile)
		return g, importFile, err
	}

	result, err := fetch.URL(ctx, importURL, nil)
	if err != nil {
		return nil, importURL, err
	}
	logger.Debug("fetched guidelines",
		zap.String("url", importURL),
		zap.String("contentType", result.ContentType),
		zap.Int("bytes", len(result.Body)))

	g, err := guidelines.Parse(result.Body, result.Format() == fetch.FormatJSON)
	if err != nil {
		return nil, importURL, fmt.Errorf("failed to parse guidelines from %s: %w", importURL, err)
	}
	return g, importURL, nil
}
