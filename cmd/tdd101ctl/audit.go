package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/audit"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the persisted audit trail",
	Run:   requireSubcommand,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent audit messages, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")

		cfg, err := loadConfig()
		if err != nil {
			exitWithError("Failed to list audit messages", err)
		}
		conn, err := db.Connect(cmd.Context(), db.Config{URL: cfg.DatabaseURL, Dialect: cfg.DatabaseDialect})
		if err != nil {
			exitWithError("Failed to list audit messages", err)
		}
		defer func() { _ = conn.Close() }()

		if err := listAudit(cmd.Context(), cmd.OutOrStdout(), audit.NewStore(conn), limit, output); err != nil {
			exitWithError("Failed to list audit messages", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)

	auditListCmd.Flags().IntP("limit", "n", 20, "number of messages to show")
	auditListCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func listAudit(ctx context.Context, out io.Writer, s *audit.Store, limit int, output string) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	messages, err := s.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if output == "json" {
		return printJSON(out, messages)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSEVERITY\tMESSAGE")
	for _, m := range messages {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Timestamp.UTC().Format(time.RFC3339), audit.Severity(m.Severity), m.Message)
	}
	return w.Flush()
}
