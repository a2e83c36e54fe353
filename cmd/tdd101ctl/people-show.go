package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var peopleShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one person",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			exitWithError("Failed to show person", err)
		}
		output, _ := cmd.Flags().GetString("output")

		err = withRepository(cmd.Context(), func(repo store.PersonRepository) error {
			return showPerson(cmd.Context(), cmd.OutOrStdout(), repo, id, output)
		})
		if err != nil {
			exitWithError("Failed to show person", err)
		}
	},
}

func init() {
	peopleCmd.AddCommand(peopleShowCmd)
	peopleShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer: %q", raw)
	}
	return id, nil
}

func showPerson(ctx context.Context, out io.Writer, repo store.PersonRepository, id int64, output string) error {
	person, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if output == "json" {
		return printJSON(out, person)
	}
	return printPeople(out, []model.Person{*person}, output)
}
