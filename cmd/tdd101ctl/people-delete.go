package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var peopleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a person",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError("Failed to delete person", err)
		}

		err = withRepository(cmd.Context(), func(repo store.PersonRepository) error {
			return deletePerson(cmd.Context(), cmd.OutOrStdout(), repo, id)
		})
		if err != nil {
			exitWithError("Failed to delete person", err)
		}
	},
}

func init() {
	peopleCmd.AddCommand(peopleDeleteCmd)
}

func deletePerson(ctx context.Context, out io.Writer, repo store.PersonRepository, id int64) error {
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted person %d\n", id)
	return nil
}
