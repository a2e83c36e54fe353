package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/clock"
)

// clockCmd represents the clock command
var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Inspect the service clock",
	Run:   requireSubcommand,
}

var clockNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Print the current UTC time as the service sees it",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), formatNow(clock.Default))
	},
}

func init() {
	rootCmd.AddCommand(clockCmd)
	clockCmd.AddCommand(clockNowCmd)
}

func formatNow(c clock.Provider) string {
	return c.UTCNow().Format(time.RFC3339Nano)
}
