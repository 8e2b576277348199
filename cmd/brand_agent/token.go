package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-compliance/internal/config"
	"github.com/jonathan/brand-compliance/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  "Issues a signed bearer token for an API client using JWT_SECRET, JWT_ISSUER and JWT_EXPIRATION_HOURS.",
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Client name the token is issued to (required)")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
