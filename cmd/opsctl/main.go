// Command opsctl performs administrative tasks against a secops-service deployment.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "opsctl",
	Short: "Administer secops-service accounts, tokens and schema",
	Long: `opsctl reads the same environment (and .env file) as the API server.

Available commands:
  hash-password  - Print a bcrypt hash for a password
  create-account - Store a staff account in the configured store
  migrate        - Apply the embedded Postgres migrations
  issue-token    - Mint a session token for an identity`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd, createAccountCmd, migrateCmd, issueTokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
