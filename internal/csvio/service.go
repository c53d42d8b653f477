package csvio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"moneybook/internal/core"
	"moneybook/internal/log"
)

// Service reads and writes <login>_transactions.csv and <login>_budgets.csv
// in one directory.
type Service struct {
	dir    string
	logger *log.Logger
}

func NewService(dir string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{dir: dir, logger: logger.WithComponent(log.ComponentCSV)}
}

func (s *Service) TransactionsPath(login string) string {
	return filepath.Join(s.dir, login+"_transactions.csv")
}

func (s *Service) BudgetsPath(login string) string {
	return filepath.Join(s.dir, login+"_budgets.csv")
}

// Export writes both files for login, replacing any previous content.
func (s *Service) Export(ctx context.Context, login string, w *core.Wallet) error {
	var txBuf, budgetBuf bytes.Buffer
	if err := WriteTransactions(&txBuf, w.Transactions()); err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := WriteBudgets(&budgetBuf, w.Budgets()); err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}
	if err := os.WriteFile(s.TransactionsPath(login), txBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write transactions file: %w", err)
	}
	if err := os.WriteFile(s.BudgetsPath(login), budgetBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write budgets file: %w", err)
	}
	s.logger.InfoContext(ctx, "Wallet exported",
		log.FieldLogin, login,
		log.FieldCount, w.Len(),
		log.FieldPath, s.dir,
	)
	return nil
}

// Parsed is the validated content of a user's import files.
type Parsed struct {
	Transactions []TransactionRecord
	Budgets      []BudgetRecord
}

// Validate reads and checks both files for login without touching any wallet
// or registry. Any problem fails the whole import with a *ValidationError.
func (s *Service) Validate(ctx context.Context, login string) (*Parsed, error) {
	var p Parsed
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := parseFile(gctx, s.TransactionsPath(login), ParseTransactions)
		p.Transactions = txs
		return err
	})
	g.Go(func() error {
		budgets, err := parseFile(gctx, s.BudgetsPath(login), ParseBudgets)
		p.Budgets = budgets
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "Import rejected", log.FieldLogin, login, log.FieldError, err.Error())
		return nil, err
	}
	return &p, nil
}

func parseFile[T any](ctx context.Context, path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ValidationError{File: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	out, err := parse(f)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.File = path
		}
		return nil, err
	}
	return out, nil
}

// Apply replaces the wallet's content with p, creating categories as needed.
func (p *Parsed) Apply(w *core.Wallet, r *core.Registry) {
	txs := make([]core.Transaction, 0, len(p.Transactions))
	for _, rec := range p.Transactions {
		txs = append(txs, core.Transaction{Kind: rec.Kind, Amount: rec.Amount, Category: r.GetOrCreate(rec.Category)})
	}
	budgets := make(map[core.Category]decimal.Decimal, len(p.Budgets))
	for _, rec := range p.Budgets {
		budgets[r.GetOrCreate(rec.Category)] = rec.Amount
	}
	w.Replace(txs, budgets)
}
