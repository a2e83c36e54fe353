package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var peopleUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the details of a person",
	Long: `Change the details of a person. Details without a flag keep their
current value.

Example:
  tdd101ctl people update 7 --last-name King`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError("Failed to update person", err)
		}
		changes := personFromFlags(cmd)

		err = withRepository(cmd.Context(), func(repo store.PersonRepository) error {
			return updatePerson(cmd.Context(), cmd.OutOrStdout(), repo, id, changes)
		})
		if err != nil {
			exitWithError("Failed to update person", err)
		}
	},
}

func init() {
	peopleCmd.AddCommand(peopleUpdateCmd)
	addPersonFlags(peopleUpdateCmd)
}

// updatePerson overlays the non-empty details of changes on the stored person.
func updatePerson(ctx context.Context, out io.Writer, repo store.PersonRepository, id int64, changes model.Person) error {
	person, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if changes.FirstName != "" {
		person.FirstName = changes.FirstName
	}
	if changes.LastName != "" {
		person.LastName = changes.LastName
	}
	if changes.Email != "" {
		person.Email = changes.Email
	}

	if err := repo.Update(ctx, person); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated person %d\n", id)
	return nil
}
