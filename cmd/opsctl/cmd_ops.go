package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/observability"
	"github.com/spec-kit/secops-service/internal/persistence"
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded Postgres migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required")
		}
		logger, err := newCLILogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var tokenFlags struct {
	subject  string
	username string
	role     string
	ttl      time.Duration
}

// issueTokenCmd mints a session token
var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Mint a session token for an identity",
	Long: `Sign a session token with AUTH_JWT_SECRET without checking credentials.

Useful for smoke tests and service-to-service calls.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !validRole(tokenFlags.role) {
			return fmt.Errorf("unknown role %q", tokenFlags.role)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ttl := tokenFlags.ttl
		if ttl <= 0 {
			ttl = cfg.Auth.TokenTTL()
		}
		tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, ttl)
		if err != nil {
			return err
		}
		username := tokenFlags.username
		if username == "" {
			username = tokenFlags.subject
		}
		token, expiresAt, err := tokens.Issue(domain.Identity{
			ID:       tokenFlags.subject,
			Username: username,
			Role:     tokenFlags.role,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	f := issueTokenCmd.Flags()
	f.StringVar(&tokenFlags.subject, "subject", "", "subject id (required)")
	f.StringVar(&tokenFlags.username, "username", "", "username claim, defaults to the subject")
	f.StringVar(&tokenFlags.role, "role", domain.RoleOfficer, "role claim")
	f.DurationVar(&tokenFlags.ttl, "ttl", 0, "validity, defaults to AUTH_TOKEN_TTL_HOURS")
	_ = issueTokenCmd.MarkFlagRequired("subject")
}

func newCLILogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.Logger
	lc.File = ""
	return observability.NewLogger(lc)
}
