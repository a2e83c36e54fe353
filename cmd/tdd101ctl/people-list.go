package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var peopleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every person ordered by id",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		err := withRepository(cmd.Context(), func(repo store.PersonRepository) error {
			return listPeople(cmd.Context(), cmd.OutOrStdout(), repo, output)
		})
		if err != nil {
			exitWithError("Failed to list people", err)
		}
	},
}

func init() {
	peopleCmd.AddCommand(peopleListCmd)
	peopleListCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func listPeople(ctx context.Context, out io.Writer, repo store.PersonRepository, output string) error {
	people, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	return printPeople(out, people, output)
}
