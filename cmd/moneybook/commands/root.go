package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"moneybook/internal/cli"
)

var (
	login    string
	password string
	app      *cli.App
)

func Execute() error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	return run(ctx, newRootCmd())
}

// run executes root and always releases the app, also when a command fails.
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, closeApp(ctx))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "moneybook",
		Short:        "Personal finance ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.LoadEnvFile(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger, err := cli.SetupLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			app, err = cli.NewApp(cmd.Context(), cfg, logger)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&login, "login", "u", "", "user login")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "user password")

	root.AddCommand(
		registerCmd(),
		balanceCmd(),
		incomeCmd(),
		expenseCmd(),
		budgetCmd(),
		transferCmd(),
		exportCmd(),
		importCmd(),
		reportCmd(),
		categoriesCmd(),
	)
	return root
}

func closeApp(ctx context.Context) error {
	if app == nil {
		return nil
	}
	err := app.Close(ctx)
	app = nil
	return err
}

func requireCredentials() error {
	if login == "" || password == "" {
		return errors.New("--login and --password are required")
	}
	return nil
}

// withSession logs in, runs fn and logs out. The logout saves the wallet, so
// its error is reported when fn succeeded.
func withSession(cmd *cobra.Command, fn func(ctx context.Context) error) (err error) {
	if err := requireCredentials(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := app.Engine.Login(ctx, login, password); err != nil {
		return err
	}
	defer func() {
		if lerr := app.Engine.Logout(ctx); err == nil {
			err = lerr
		}
	}()
	return fn(ctx)
}
