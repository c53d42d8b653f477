package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"moneybook/internal/core"
)

// income <amount> <category>
func incomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "income <amount> <category>",
		Short: "Record an income",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[0], err)
			}
			return withSession(cmd, func(ctx context.Context) error {
				if err := app.Engine.AddIncome(amount, args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "income recorded")
				return nil
			})
		},
	}
}

// expense <amount> <category>
func expenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expense <amount> <category>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[0], err)
			}
			return withSession(cmd, func(ctx context.Context) error {
				alerts, err := app.Engine.AddExpense(amount, args[1])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "expense recorded")
				if !alerts.Any() {
					return nil
				}
				switch {
				case alerts.BudgetExceeded:
					fmt.Fprintf(out, "warning: budget for %q exceeded by %s\n", args[1], core.FormatAmount(alerts.OverBudgetBy))
				case alerts.BudgetNearLimit:
					fmt.Fprintf(out, "warning: more than 80%% of the budget for %q is spent\n", args[1])
				}
				if alerts.Overspent {
					fmt.Fprintln(out, "warning: expenses exceed income")
				}
				return nil
			})
		},
	}
}

// budget <category> <amount>
func budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget <category> <amount>",
		Short: "Set or replace the budget for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			return withSession(cmd, func(ctx context.Context) error {
				if err := app.Engine.SetBudget(args[0], amount); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "budget for %q set to %s\n", args[0], core.FormatAmount(amount))
				return nil
			})
		},
	}
}

// transfer <login> <amount> <category>
func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <login> <amount> <category>",
		Short: "Move money to another user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			return withSession(cmd, func(ctx context.Context) error {
				if err := app.Engine.Transfer(ctx, args[0], amount, args[2]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "transferred %s to %s\n", core.FormatAmount(amount), args[0])
				return nil
			})
		},
	}
}
