package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compliance/internal/config"
	"github.com/jonathan/brand-compliance/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the evaluate, fixes and translate endpoints.`,
	RunE:  runServe,
}

var (
	servePort        int
	serveRequireAuth bool
	serveOrigins     []string
	serveSources     sourceFlags
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, fmt.Sprintf("Port to listen on (default %d)", config.DefaultPort))
	serveCmd.Flags().BoolVar(&serveRequireAuth, "require-auth", false, "Require a bearer token (JWT_SECRET must be set)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allowed-origin", nil, "Allowed CORS origin (repeatable; default any)")
	addSourceFlags(serveCmd, &serveSources)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(serveSources)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveRequireAuth {
		cfg.RequireAuth = true
	}
	if len(serveOrigins) > 0 {
		cfg.AllowedOrigins = serveOrigins
	}

	jwtConfig, err := config.LoadJWTConfig(cfg.RequireAuth)
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}

	evaluator, b, err := newEvaluator(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	srvConfig := server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		JWT:            jwtConfig,
		Evaluator:      evaluator,
		Logger:         logger.Named("server"),
	}
	if b.database != nil {
		srvConfig.Evaluations = b.database
	}

	srv, err := server.New(srvConfig)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
