package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the wallet to <login>_transactions.csv and <login>_budgets.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context) error {
				if err := app.Engine.ExportCSV(ctx, app.CSV); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s and %s\n", app.CSV.TransactionsPath(login), app.CSV.BudgetsPath(login))
				return nil
			})
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Replace the wallet with the content of the user's CSV files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context) error {
				p, err := app.Engine.ImportCSV(ctx, app.CSV)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions and %d budgets\n", len(p.Transactions), len(p.Budgets))
				return nil
			})
		},
	}
}
