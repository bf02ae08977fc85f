package main

import (
	"fmt"
	"os"

	"github.com/Yaswanth0403/BookHaven/internal/catalogimport"
	"github.com/Yaswanth0403/BookHaven/internal/repository"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "import <file.yaml>",
		Short:   "Insert or update catalog books from a YAML seed file",
		Example: `  bookctl import data/books.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := catalogimport.Import(cmd.Context(), repository.NewBookRepository(db.DB()), f, a.logger)
			if err != nil {
				return fmt.Errorf("import stopped after %d books: %w", n, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d books\n", n)
			return nil
		},
	}
}
