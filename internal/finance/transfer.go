package finance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"moneybook/internal/core"
	"moneybook/internal/events"
	"moneybook/internal/log"
)

// Transfer moves amount from the current user to another registered user,
// recording an expense for the sender and an income for the recipient under
// the same category. Both wallets are saved in one batch before the transfer
// counts as done; if saving fails neither wallet changes.
func (e *Engine) Transfer(ctx context.Context, to string, amount decimal.Decimal, category string) error {
	if !e.session.active() {
		return ErrNotLoggedIn
	}
	from := e.session.login
	if !e.store.Exists(to) {
		return ErrUnknownRecipient
	}
	if to == from {
		return ErrSelfTransfer
	}
	if err := core.ValidateAmount(amount); err != nil {
		return err
	}
	sender := e.session.wallet
	if sender.Balance().LessThan(amount) {
		return ErrInsufficientFunds
	}
	c, err := e.Category(category)
	if err != nil {
		return err
	}

	// A recipient wallet that cannot be read must not be overwritten.
	recipient, err := e.store.Wallet(ctx, to)
	if err != nil {
		e.store.Evict(to)
		return fmt.Errorf("load recipient wallet: %w", err)
	}

	expense := core.NewExpense(amount, c)
	income := core.NewIncome(amount, c)
	stagedSender := sender.Clone()
	stagedSender.AddTransaction(expense)
	stagedRecipient := recipient.Clone()
	stagedRecipient.AddTransaction(income)

	fields := log.NewFields().WithTransfer(from, to, core.FormatAmount(amount), c.Name())
	if err := e.store.Persist(ctx, map[string]*core.Wallet{from: stagedSender, to: stagedRecipient}); err != nil {
		e.logger.LogError(ctx, "Transfer not saved", err, log.OpTransfer, fields)
		return fmt.Errorf("save transfer: %w", err)
	}
	sender.AddTransaction(expense)
	recipient.AddTransaction(income)
	e.logger.InfoContext(ctx, "Transfer committed", fields.ToSlice()...)

	ev := events.NewTransferEvent(from, to, core.FormatAmount(amount), c.Name())
	e.publish(ctx, ev)
	return nil
}

// publish delivers ev; the ledger is already committed so failures are only logged.
func (e *Engine) publish(ctx context.Context, ev *events.Event) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.logger.LogError(ctx, "Failed to publish event", err, log.OpPublish,
			log.NewFields().WithLogin(ev.Login).With(log.FieldEventID, ev.ID))
	}
}
