package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/config"
	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/persistence"
)

var hashCost int

// hashPasswordCmd prints a bcrypt hash
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0], hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var accountFlags struct {
	username  string
	password  string
	email     string
	firstName string
	lastName  string
	role      string
	inactive  bool
}

// createAccountCmd stores a staff account
var createAccountCmd = &cobra.Command{
	Use:   "create-account",
	Short: "Store a staff account in the configured store",
	Long: `Create a secondary login checked after the operator credential.

The store is selected by STORE_DRIVER exactly as for the API server.`,
	RunE: runCreateAccount,
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost")

	f := createAccountCmd.Flags()
	f.StringVar(&accountFlags.username, "username", "", "login name (required)")
	f.StringVar(&accountFlags.password, "password", "", "plaintext password (required)")
	f.StringVar(&accountFlags.email, "email", "", "e-mail address, also accepted as login")
	f.StringVar(&accountFlags.firstName, "first-name", "", "first name")
	f.StringVar(&accountFlags.lastName, "last-name", "", "last name")
	f.StringVar(&accountFlags.role, "role", domain.RoleOfficer, "admin, supervisor or officer")
	f.BoolVar(&accountFlags.inactive, "inactive", false, "create the account disabled")
	_ = createAccountCmd.MarkFlagRequired("username")
	_ = createAccountCmd.MarkFlagRequired("password")
}

func validRole(role string) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleSupervisor, domain.RoleOfficer:
		return true
	}
	return false
}

func runCreateAccount(cmd *cobra.Command, _ []string) error {
	if !validRole(accountFlags.role) {
		return fmt.Errorf("unknown role %q", accountFlags.role)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := persistence.OpenStore(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer store.Close()

	existing, err := store.Accounts().List(ctx)
	if err != nil {
		return err
	}
	for _, a := range existing {
		if strings.EqualFold(a.Username, accountFlags.username) {
			return errors.New("username already taken")
		}
	}

	hash, err := auth.HashPassword(accountFlags.password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	account := &domain.Account{
		Username:     accountFlags.username,
		Email:        accountFlags.email,
		PasswordHash: hash,
		FirstName:    accountFlags.firstName,
		LastName:     accountFlags.lastName,
		Role:         accountFlags.role,
		Active:       !accountFlags.inactive,
	}
	if err := account.Validate(); err != nil {
		return err
	}
	if err := store.Accounts().Create(ctx, account); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created account %s (%s) id=%s\n", account.Username, account.Role, account.ID)
	return nil
}
