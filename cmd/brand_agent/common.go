package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/brand-compliance/internal/config"
	"github.com/jonathan/brand-compliance/internal/db"
	"github.com/jonathan/brand-compliance/internal/guidelines"
	"github.com/jonathan/brand-compliance/internal/llm"
	"github.com/jonathan/brand-compliance/internal/pipeline"
	"github.com/jonathan/brand-compliance/internal/schemas"
	"github.com/jonathan/brand-compliance/internal/types"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// sourceFlags are the guideline source overrides shared by several commands
type sourceFlags struct {
	guidelinesFile string
	sqlitePath     string
	databaseURL    string
	noAdvisory     bool
}

// loadConfig reads --config when given, applies flag overrides, fills
// defaults from the environment and validates the result
func loadConfig(flags sourceFlags) (*config.Config, error) {
	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	switch {
	case flags.databaseURL != "":
		cfg.DatabaseURL = flags.databaseURL
		cfg.GuidelinesFile, cfg.SQLitePath = "", ""
	case flags.guidelinesFile != "" || flags.sqlitePath != "":
		cfg.GuidelinesFile = flags.guidelinesFile
		cfg.SQLitePath = flags.sqlitePath
	}
	// A local source from flags or the config file wins over any database URL
	localSource := cfg.GuidelinesFile != "" || cfg.SQLitePath != ""
	if localSource {
		cfg.DatabaseURL = ""
	}
	if flags.noAdvisory {
		cfg.APIKey = ""
	}
	if verbose {
		cfg.Verbose = true
	}

	env := config.Config{}
	if !localSource {
		env.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if !flags.noAdvisory {
		env.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	merged := cfg.MergeWithDefaults(env)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// backends holds the guideline store and optional PostgreSQL connection
// selected by the configuration
type backends struct {
	store    guidelines.Store
	database *db.DB
	closers  []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// guidelineSource names the backend a configuration selects
type guidelineSource int

const (
	sourceNone guidelineSource = iota
	sourcePostgres
	sourceSQLite
	sourceFile
)

// selectSource picks PostgreSQL when a database URL is set, else SQLite,
// else a guideline file. loadConfig leaves at most one of them set.
func selectSource(cfg *config.Config) guidelineSource {
	switch {
	case cfg.DatabaseURL != "":
		return sourcePostgres
	case cfg.SQLitePath != "":
		return sourceSQLite
	case cfg.GuidelinesFile != "":
		return sourceFile
	default:
		return sourceNone
	}
}

// openBackends opens the guideline store chosen by selectSource. No source
// leaves the store nil.
func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{}
	switch selectSource(cfg) {
	case sourcePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		b.store, b.database = database, database
		b.closers = append(b.closers, database.Close)
	case sourceSQLite:
		store, err := guidelines.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.store = store
		b.closers = append(b.closers, func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close guideline database", zap.Error(err))
			}
		})
	case sourceFile:
		store, err := guidelines.NewMemoryStoreFromFile(cfg.GuidelinesFile)
		if err != nil {
			return nil, err
		}
		b.store = store
	default:
		logger.Debug("no guideline source configured; fixes limited to violation suggestions")
	}
	return b, nil
}

// newEvaluator builds the pipeline from cfg. Closing the returned backends
// also releases the advisory client.
func newEvaluator(ctx context.Context, cfg *config.Config, opts ...pipeline.Option) (*pipeline.Evaluator, *backends, error) {
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	options := []pipeline.Option{
		pipeline.WithGuidelineStore(b.store),
		pipeline.WithWeights(cfg.Weights),
		pipeline.WithNearestColor(cfg.NearestColor),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithAdvisoryTimeout(cfg.AdvisoryTimeoutDuration()),
		pipeline.WithLogger(logger),
	}

	if cfg.APIKey != "" {
		llmConfig := llm.DefaultConfig().WithAdvisoryModel(cfg.AdvisoryModel)
		advisor, err := llm.NewGeminiAdvisor(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			b.Close()
			return nil, nil, fmt.Errorf("failed to create advisory client: %w", err)
		}
		b.closers = append(b.closers, func() { _ = advisor.Close() })
		options = append(options, pipeline.WithAdvisor(advisor))
	}

	return pipeline.NewEvaluator(append(options, opts...)...), b, nil
}

// readInput decodes a JSON or YAML file into dst, chosen by extension
func readInput(path string, dst any) error {
	if path == "" {
		return fmt.Errorf("input path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, dst)
	default:
		err = json.Unmarshal(data, dst)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readEvaluationInputs loads the document and profile and applies the
// configured brand and industry where the inputs leave them empty
func readEvaluationInputs(documentPath, profilePath string, cfg *config.Config) (*types.Document, *types.BrandProfile, error) {
	var doc types.Document
	if err := readInput(documentPath, &doc); err != nil {
		return nil, nil, err
	}
	var profile types.BrandProfile
	if err := readInput(profilePath, &profile); err != nil {
		return nil, nil, err
	}
	if profile.BrandID == "" {
		profile.BrandID = cfg.BrandID
	}
	if profile.Industry == "" {
		profile.Industry = cfg.Industry
	}
	return &doc, &profile, nil
}

// writeOutput validates v against the named schema when it can be found and
// writes it as indented JSON to path, or to out when path is empty
func writeOutput(out io.Writer, path string, schemaName string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	found, err := schemas.ValidateOutput(schemaName, data)
	if err != nil {
		return fmt.Errorf("output failed schema validation: %w", err)
	}
	if !found {
		logger.Debug("schema not found; output not validated", zap.String("schema", schemaName))
	}

	if path == "" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
