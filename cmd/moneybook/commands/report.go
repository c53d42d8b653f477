package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"moneybook/internal/core"
	"moneybook/internal/report"
)

// report [category...]: full report, or totals for the named categories.
func reportCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "report [category...]",
		Short: "Print income, expenses and budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context) error {
				var buf bytes.Buffer
				if err := writeReport(cmd, &buf, args); err != nil {
					return err
				}
				if save {
					path := filepath.Join(app.Config.CSVDir, login+"_report.txt")
					if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
						return fmt.Errorf("write report: %w", err)
					}
				}
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "also write the report to <login>_report.txt in CSV_DIR")
	return cmd
}

func writeReport(cmd *cobra.Command, w io.Writer, names []string) error {
	wallet, _ := app.Engine.CurrentWallet()
	if len(names) == 0 {
		return report.Full(wallet).Write(w)
	}
	var cats []core.Category
	for _, name := range names {
		c, ok := app.Engine.LookupCategory(name)
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "unknown category %q\n", name)
			continue
		}
		cats = append(cats, c)
	}
	return report.ByCategories(wallet, cats).Write(w)
}
