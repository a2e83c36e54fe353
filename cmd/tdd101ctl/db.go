package main

import (
	"github.com/spf13/cobra"
)

// dbCmd groups the schema commands
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Migrate the people schema",
	Long: `Apply, roll back and inspect the embedded migrations for the people and
audit_messages tables in the database named by the database_url setting.`,
	Run: requireSubcommand,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
