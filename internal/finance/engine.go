// Package finance runs one user session against the account store: recording
// income and expenses, budgets, transfers between users and CSV round trips.
package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"moneybook/internal/account"
	"moneybook/internal/core"
	"moneybook/internal/events"
	"moneybook/internal/log"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrUnknownRecipient   = errors.New("unknown recipient")
	ErrSelfTransfer       = errors.New("cannot transfer to yourself")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

// budgetWarnRatio is the share of a budget after which an expense is flagged.
var budgetWarnRatio = decimal.RequireFromString("0.8")

// session is the logged-in user. The zero value means logged out.
type session struct {
	login  string
	wallet *core.Wallet
}

func (s session) active() bool {
	return s.login != ""
}

// Engine is a single-user session over shared accounts. It is not safe for
// concurrent use.
type Engine struct {
	store     *account.Store
	registry  *core.Registry
	publisher events.Publisher
	logger    *log.Logger
	session   session
}

// NewEngine builds an engine over store. registry must be the one store
// restores wallets into. A nil publisher drops events.
func NewEngine(store *account.Store, registry *core.Registry, publisher events.Publisher, logger *log.Logger) *Engine {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Engine{
		store:     store,
		registry:  registry,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentFinance),
	}
}

// Register creates a user. It does not log the user in.
func (e *Engine) Register(ctx context.Context, login, password string) error {
	cred := core.Credential{Login: login, Password: password}
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return e.store.Register(ctx, login, password)
}

// Login starts a session, ending any previous one first. A wallet that cannot be read is replaced by an
// empty one; the failure is logged and login still succeeds.
func (e *Engine) Login(ctx context.Context, login, password string) error {
	if _, ok := e.store.Authenticate(login, password); !ok {
		e.logger.WarnContext(ctx, "Login rejected", log.FieldLogin, login)
		return ErrInvalidCredentials
	}
	if err := e.Logout(ctx); err != nil {
		return err
	}
	w, err := e.store.LoadWallet(ctx, login)
	if err != nil {
		e.logger.WarnContext(ctx, "Logged in with an empty wallet", log.FieldLogin, login, log.FieldError, err.Error())
	}
	e.session = session{login: login, wallet: w}
	e.logger.InfoContext(ctx, "Logged in",
		log.FieldLogin, login,
		log.FieldBalance, core.FormatAmount(w.Balance()),
		log.FieldCategories, e.registry.Len(),
	)
	return nil
}

// Logout saves the current wallet and ends the session. The session ends even
// if the save fails; that error is returned.
func (e *Engine) Logout(ctx context.Context) error {
	if !e.session.active() {
		return nil
	}
	login := e.session.login
	err := e.store.SaveWallet(ctx, login)
	e.store.Evict(login)
	e.session = session{}
	if err != nil {
		return fmt.Errorf("save wallet on logout: %w", err)
	}
	e.logger.InfoContext(ctx, "Logged out", log.FieldLogin, login)
	return nil
}

func (e *Engine) CurrentUser() (string, bool) {
	return e.session.login, e.session.active()
}

func (e *Engine) CurrentWallet() (*core.Wallet, bool) {
	return e.session.wallet, e.session.active()
}

func (e *Engine) Balance() (decimal.Decimal, error) {
	if !e.session.active() {
		return decimal.Zero, ErrNotLoggedIn
	}
	return e.session.wallet.Balance(), nil
}

// Category returns the interned category for name, creating it if needed.
func (e *Engine) Category(name string) (core.Category, error) {
	if strings.TrimSpace(name) == "" {
		return core.Category{}, core.ErrEmptyCategory
	}
	return e.registry.GetOrCreate(name), nil
}

func (e *Engine) LookupCategory(name string) (core.Category, bool) {
	return e.registry.Lookup(name)
}

// Categories lists every known category name, sorted.
func (e *Engine) Categories() []string {
	return e.registry.Names()
}

// prepare checks the session, amount and category shared by every entry
// that records money.
func (e *Engine) prepare(amount decimal.Decimal, category string) (core.Category, error) {
	if !e.session.active() {
		return core.Category{}, ErrNotLoggedIn
	}
	if err := core.ValidateAmount(amount); err != nil {
		return core.Category{}, err
	}
	return e.Category(category)
}

func (e *Engine) AddIncome(amount decimal.Decimal, category string) error {
	c, err := e.prepare(amount, category)
	if err != nil {
		return err
	}
	e.session.wallet.AddTransaction(core.NewIncome(amount, c))
	return nil
}

// Alerts describes what an expense did to the user's limits.
type Alerts struct {
	// BudgetExceeded is set when spending in the category is above its budget.
	BudgetExceeded bool
	// OverBudgetBy is how far above the budget spending is.
	OverBudgetBy decimal.Decimal
	// BudgetNearLimit is set when spending reached 80% of the budget but not past it.
	BudgetNearLimit bool
	// Overspent is set when total expenses are above total income.
	Overspent bool
}

// Any reports whether any alert is raised.
func (a Alerts) Any() bool {
	return a.BudgetExceeded || a.BudgetNearLimit || a.Overspent
}

// AddExpense records an expense and reports the limits it crossed.
func (e *Engine) AddExpense(amount decimal.Decimal, category string) (Alerts, error) {
	c, err := e.prepare(amount, category)
	if err != nil {
		return Alerts{}, err
	}
	w := e.session.wallet
	w.AddTransaction(core.NewExpense(amount, c))
	return checkLimits(w, c), nil
}

func checkLimits(w *core.Wallet, c core.Category) Alerts {
	var a Alerts
	if budget, ok := w.Budget(c); ok {
		spent := w.SpentIn(c)
		switch {
		case spent.GreaterThan(budget):
			a.BudgetExceeded = true
			a.OverBudgetBy = spent.Sub(budget)
		case spent.GreaterThanOrEqual(budget.Mul(budgetWarnRatio)):
			a.BudgetNearLimit = true
		}
	}
	a.Overspent = w.TotalExpense().GreaterThan(w.TotalIncome())
	return a
}

// SetBudget sets or replaces the budget for category.
func (e *Engine) SetBudget(category string, amount decimal.Decimal) error {
	c, err := e.prepare(amount, category)
	if err != nil {
		return err
	}
	e.session.wallet.SetBudget(c, amount)
	return nil
}
