package core

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Wallet holds one user's transaction log and budgets. The balance is
// cached and always equals total income minus total expense.
type Wallet struct {
	transactions []Transaction
	budgets      map[Category]decimal.Decimal
	balance      decimal.Decimal
}

func NewWallet() *Wallet {
	return &Wallet{budgets: make(map[Category]decimal.Decimal)}
}

// AddTransaction appends tx and updates the balance. Amounts are expected
// to be validated already.
func (w *Wallet) AddTransaction(tx Transaction) {
	w.transactions = append(w.transactions, tx)
	w.balance = w.balance.Add(tx.Signed())
}

// SetBudget sets or overwrites the spending ceiling for c.
func (w *Wallet) SetBudget(c Category, amount decimal.Decimal) {
	w.budgets[c] = amount
}

func (w *Wallet) Balance() decimal.Decimal {
	return w.balance
}

// Transactions returns a copy of the log in insertion order.
func (w *Wallet) Transactions() []Transaction {
	return slices.Clone(w.transactions)
}

// Budgets returns a copy of the budget map.
func (w *Wallet) Budgets() map[Category]decimal.Decimal {
	return maps.Clone(w.budgets)
}

// Budget returns the budget for c, if any.
func (w *Wallet) Budget(c Category) (decimal.Decimal, bool) {
	b, ok := w.budgets[c]
	return b, ok
}

func (w *Wallet) Len() int {
	return len(w.transactions)
}

// Replace drops every transaction and budget, then loads txs in order and
// budgets. It is the only way to remove transactions from a wallet.
func (w *Wallet) Replace(txs []Transaction, budgets map[Category]decimal.Decimal) {
	w.transactions = nil
	w.budgets = make(map[Category]decimal.Decimal, len(budgets))
	w.balance = decimal.Zero
	for _, tx := range txs {
		w.AddTransaction(tx)
	}
	for c, amount := range budgets {
		w.budgets[c] = amount
	}
}

// Clone returns an independent copy of w.
func (w *Wallet) Clone() *Wallet {
	return &Wallet{
		transactions: slices.Clone(w.transactions),
		budgets:      maps.Clone(w.budgets),
		balance:      w.balance,
	}
}

func (w *Wallet) TotalIncome() decimal.Decimal {
	return w.sum(func(tx Transaction) bool { return tx.Kind == Income })
}

func (w *Wallet) TotalExpense() decimal.Decimal {
	return w.sum(func(tx Transaction) bool { return tx.Kind == Expense })
}

// SpentIn sums the expenses recorded against c.
func (w *Wallet) SpentIn(c Category) decimal.Decimal {
	return w.sum(func(tx Transaction) bool { return tx.Kind == Expense && tx.Category == c })
}

// EarnedIn sums the income recorded against c.
func (w *Wallet) EarnedIn(c Category) decimal.Decimal {
	return w.sum(func(tx Transaction) bool { return tx.Kind == Income && tx.Category == c })
}

func (w *Wallet) sum(keep func(Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range w.transactions {
		if keep(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
