package main

import (
	"github.com/spf13/cobra"
)

// configurationCmd groups the configuration commands
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Inspect the resolved tdd101 settings",
	Long: `Inspect the settings tdd101ctl server would start with, after defaults,
tdd101.yml and TDD101_* environment variables have been applied.`,
	Run: requireSubcommand,
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}
