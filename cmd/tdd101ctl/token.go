package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/middleware"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API bearer tokens",
	Run:   requireSubcommand,
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token for the mutating API routes",
	Long: `Issue an HS256 bearer token signed with jwt_secret.

The subject is recorded in the audit trail of every change made with the
token.

Example:
  tdd101ctl token issue --subject alice
  tdd101ctl token issue --subject deploy-bot --ttl 15m`,
	Run: func(cmd *cobra.Command, args []string) {
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := issueToken(config.Get(), subject, ttl, clock.Default)
		if err != nil {
			exitWithError("Unable to issue token", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().StringP("subject", "s", "", "token subject (required)")
	tokenIssueCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	_ = tokenIssueCmd.MarkFlagRequired("subject")
}

func issueToken(cfg *config.Config, subject string, ttl time.Duration, c clock.Provider) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	return middleware.IssueToken([]byte(cfg.JWTSecret), subject, ttl, c)
}
