package finance

import (
	"context"
	"fmt"

	"moneybook/internal/core"
	"moneybook/internal/csvio"
	"moneybook/internal/events"
	"moneybook/internal/log"
)

// ExportCSV writes the current wallet to the user's CSV files.
func (e *Engine) ExportCSV(ctx context.Context, svc *csvio.Service) error {
	if !e.session.active() {
		return ErrNotLoggedIn
	}
	return svc.Export(ctx, e.session.login, e.session.wallet)
}

// ImportCSV replaces the current wallet with the content of the user's CSV
// files. The new content is saved before it replaces the wallet in memory, so
// an invalid file or a failed save leaves the wallet as it was.
func (e *Engine) ImportCSV(ctx context.Context, svc *csvio.Service) (*csvio.Parsed, error) {
	if !e.session.active() {
		return nil, ErrNotLoggedIn
	}
	login := e.session.login
	p, err := svc.Validate(ctx, login)
	if err != nil {
		return nil, err
	}

	staged := core.NewWallet()
	p.Apply(staged, e.registry)
	if err := e.store.Persist(ctx, map[string]*core.Wallet{login: staged}); err != nil {
		e.logger.LogError(ctx, "Import not saved", err, log.OpImport, log.NewFields().WithLogin(login))
		return nil, fmt.Errorf("save imported wallet: %w", err)
	}
	e.session.wallet.Replace(staged.Transactions(), staged.Budgets())

	e.logger.InfoContext(ctx, "Wallet imported",
		log.FieldLogin, login,
		log.FieldCount, len(p.Transactions),
		log.FieldBalance, core.FormatAmount(e.session.wallet.Balance()),
	)
	e.publish(ctx, events.NewImportEvent(login, len(p.Transactions), len(p.Budgets)))
	return p, nil
}
