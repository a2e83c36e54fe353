package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var peopleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a person",
	Long: `Add a person and print the new id.

Example:
  tdd101ctl people add --first-name Ada --last-name Lovelace --email ada@example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		person := personFromFlags(cmd)

		err := withRepository(cmd.Context(), func(repo store.PersonRepository) error {
			return addPerson(cmd.Context(), cmd.OutOrStdout(), repo, person)
		})
		if err != nil {
			exitWithError("Failed to add person", err)
		}
	},
}

func init() {
	peopleCmd.AddCommand(peopleAddCmd)
	addPersonFlags(peopleAddCmd)
}

func addPersonFlags(cmd *cobra.Command) {
	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("email", "", "email address")
}

func personFromFlags(cmd *cobra.Command) model.Person {
	var p model.Person
	p.FirstName, _ = cmd.Flags().GetString("first-name")
	p.LastName, _ = cmd.Flags().GetString("last-name")
	p.Email, _ = cmd.Flags().GetString("email")
	return p
}

func addPerson(ctx context.Context, out io.Writer, repo store.PersonRepository, person model.Person) error {
	id, err := repo.Create(ctx, &person)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Created person %d\n", id)
	return nil
}
