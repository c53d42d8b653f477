package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type (
	// Snapshot is the storable form of a Wallet. Categories are kept by name
	// so a snapshot can be restored into any Registry.
	Snapshot struct {
		Transactions []SnapshotTransaction `json:"transactions"`
		Budgets      map[string]string     `json:"budgets"`
	}

	SnapshotTransaction struct {
		Kind     Kind   `json:"kind"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
	}
)

// Snapshot captures the current transactions and budgets of w.
func (w *Wallet) Snapshot() Snapshot {
	s := Snapshot{
		Transactions: make([]SnapshotTransaction, 0, len(w.transactions)),
		Budgets:      make(map[string]string, len(w.budgets)),
	}
	for _, tx := range w.transactions {
		s.Transactions = append(s.Transactions, SnapshotTransaction{
			Kind:     tx.Kind,
			Amount:   FormatAmount(tx.Amount),
			Category: tx.Category.Name(),
		})
	}
	for c, amount := range w.budgets {
		s.Budgets[c.Name()] = FormatAmount(amount)
	}
	return s
}

// RestoreWallet rebuilds a wallet from s, interning categories in r. The
// snapshot is checked completely before anything is created in r.
func RestoreWallet(s Snapshot, r *Registry) (*Wallet, error) {
	type entry struct {
		kind     Kind
		amount   decimal.Decimal
		category string
	}
	entries := make([]entry, 0, len(s.Transactions))
	for i, st := range s.Transactions {
		if err := st.Kind.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		amount, err := ParseAmount(st.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if st.Category == "" {
			return nil, fmt.Errorf("transaction %d: %w", i, ErrEmptyCategory)
		}
		entries = append(entries, entry{kind: st.Kind, amount: amount, category: st.Category})
	}
	budgets := make(map[string]decimal.Decimal, len(s.Budgets))
	for name, raw := range s.Budgets {
		amount, err := ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("budget %q: %w", name, err)
		}
		if name == "" {
			return nil, fmt.Errorf("budget: %w", ErrEmptyCategory)
		}
		budgets[name] = amount
	}

	w := NewWallet()
	for _, e := range entries {
		w.AddTransaction(Transaction{Kind: e.kind, Amount: e.amount, Category: r.GetOrCreate(e.category)})
	}
	for name, amount := range budgets {
		w.SetBudget(r.GetOrCreate(name), amount)
	}
	return w, nil
}
