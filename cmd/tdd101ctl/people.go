package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/config"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/db"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/model"
	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store/gorm"
	sqlxstore "github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store/sqlx"
)

// peopleCmd represents the people command
var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Manage people directly in the database",
	Long: `Manage people directly in the database.

These commands bypass the HTTP API and go through the repository selected
by the store setting (gorm or sqlx). They are not audited.`,
	Run: requireSubcommand,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
}

// withRepository runs fn with the configured person repository and closes
// the connection afterwards.
func withRepository(ctx context.Context, fn func(store.PersonRepository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := db.Connect(ctx, db.Config{URL: cfg.DatabaseURL, Dialect: cfg.DatabaseDialect})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	repo, err := newRepository(conn, cfg.Store)
	if err != nil {
		return err
	}
	return fn(repo)
}

func newRepository(conn *sqlx.DB, backend string) (store.PersonRepository, error) {
	switch backend {
	case config.StoreGorm:
		gormDB, err := db.Gorm(conn, false)
		if err != nil {
			return nil, err
		}
		return gormstore.NewPersonRepository(gormDB), nil
	case config.StoreSQLx:
		return sqlxstore.NewPersonRepository(conn), nil
	default:
		return nil, fmt.Errorf("unknown store %q", backend)
	}
}

func printPeople(out io.Writer, people []model.Person, output string) error {
	if output == "json" {
		return printJSON(out, people)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFIRST NAME\tLAST NAME\tEMAIL")
	for _, p := range people {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.FirstName, p.LastName, p.Email)
	}
	return w.Flush()
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
