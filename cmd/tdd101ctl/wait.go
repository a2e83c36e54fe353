package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the tdd101 server to be ready",
	Long: `Wait for the tdd101 server to be ready by polling the status endpoint.

This command will repeatedly check /status until it responds successfully
or the maximum number of retries is reached. A 503 from /status means the
server is up but cannot reach its database, and counts as not ready.

Example:
  tdd101ctl wait
  tdd101ctl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = config.Get().Port
		}
		retries, _ := cmd.Flags().GetInt("retries")
		url := fmt.Sprintf("http://localhost:%s/status", port)

		if err := waitForServer(cmd.Context(), cmd.OutOrStdout(), url, retries, time.Second); err != nil {
			exitWithError("Server did not become ready", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "tdd101 server is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().StringP("port", "p", "", "Server port to check (defaults to port)")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func waitForServer(ctx context.Context, out io.Writer, url string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Fprintln(out, "Waiting for tdd101 to be ready...")

	for i := 0; i < retries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 300 {
				fmt.Fprintln(out)
				return nil
			}
		}

		fmt.Fprint(out, ".")
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	fmt.Fprintln(out)
	return fmt.Errorf("tdd101 is not ready after %d attempts", retries)
}
