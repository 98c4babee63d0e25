package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salesapi/accounts/internal/app"
	"github.com/salesapi/accounts/shared/cqrs"
)

// import: drop the accounts table and reload it from CSV.
func importCmd() *cobra.Command {
	var csvPath, dsn string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Recreate the accounts table from a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if csvPath == "" {
				csvPath = cfg.Import.CSVPath
			}
			if dsn == "" {
				dsn = cfg.Import.DSN
			}

			f, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("failed to open import source: %w", err)
			}
			defer f.Close()

			application, err := app.New(cmd.Context(), cfg, log, dsn)
			if err != nil {
				return err
			}
			defer application.Close()

			n, err := application.Importer().ImportAccounts(cmd.Context(), cqrs.ImportAccountsCommand{
				Source: f,
				Name:   csvPath,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d accounts from %s\n", n, csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to import (default $ACCOUNTS_CSV or data/sales.csv)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "writable database DSN (default $IMPORT_DATABASE_URL)")
	return cmd
}
