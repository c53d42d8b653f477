package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"moneybook/internal/core"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context) error {
				bal, err := app.Engine.Balance()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), core.FormatAmount(bal))
				return nil
			})
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in the wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context) error {
				for _, name := range app.Engine.Categories() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}
