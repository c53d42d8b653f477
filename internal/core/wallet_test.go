package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWalletBalanceInvariant(t *testing.T) {
	r := NewRegistry()
	salary, food, taxi := r.GetOrCreate("Salary"), r.GetOrCreate("Food"), r.GetOrCreate("Taxi")

	txs := []Transaction{
		NewIncome(d("1000"), salary),
		NewExpense(d("150.25"), food),
		NewExpense(d("0.1"), taxi),
		NewExpense(d("0.2"), taxi),
		NewIncome(d("0.3"), salary),
		NewExpense(d("2000"), food),
	}

	w := NewWallet()
	for i, tx := range txs {
		w.AddTransaction(tx)
		want := w.TotalIncome().Sub(w.TotalExpense())
		if !w.Balance().Equal(want) {
			t.Fatalf("after tx %d balance %s != income-expense %s", i, w.Balance(), want)
		}
		if w.Len() != i+1 {
			t.Fatalf("after tx %d expected %d transactions, got %d", i, i+1, w.Len())
		}
	}
	if !w.Balance().Equal(d("-1150.25")) {
		t.Fatalf("unexpected final balance %s", w.Balance())
	}
	if !w.SpentIn(taxi).Equal(d("0.3")) {
		t.Fatalf("unexpected taxi spend %s", w.SpentIn(taxi))
	}
	if !w.EarnedIn(salary).Equal(d("1000.3")) {
		t.Fatalf("unexpected salary income %s", w.EarnedIn(salary))
	}
}

func TestWalletBudgetsLastWriteWins(t *testing.T) {
	r := NewRegistry()
	food := r.GetOrCreate("Food")
	w := NewWallet()
	w.SetBudget(food, d("500"))
	w.SetBudget(food, d("300"))

	b, ok := w.Budget(food)
	if !ok || !b.Equal(d("300")) {
		t.Fatalf("expected budget 300, got %s (ok=%v)", b, ok)
	}
	if len(w.Budgets()) != 1 {
		t.Fatalf("expected one budget, got %v", w.Budgets())
	}
}

func TestWalletViewsAreCopies(t *testing.T) {
	r := NewRegistry()
	food := r.GetOrCreate("Food")
	w := NewWallet()
	w.AddTransaction(NewExpense(d("10"), food))
	w.SetBudget(food, d("50"))

	txs := w.Transactions()
	txs[0].Amount = d("999")
	budgets := w.Budgets()
	delete(budgets, food)

	if !w.Transactions()[0].Amount.Equal(d("10")) {
		t.Fatalf("transactions view leaked a mutation")
	}
	if _, ok := w.Budget(food); !ok {
		t.Fatalf("budgets view leaked a mutation")
	}
}

func TestWalletReplaceAndClone(t *testing.T) {
	r := NewRegistry()
	food, salary := r.GetOrCreate("Food"), r.GetOrCreate("Salary")
	w := NewWallet()
	w.AddTransaction(NewIncome(d("100"), salary))
	w.SetBudget(food, d("20"))

	c := w.Clone()
	c.AddTransaction(NewExpense(d("30"), food))
	if w.Len() != 1 || !w.Balance().Equal(d("100")) {
		t.Fatalf("clone shares state with original")
	}

	w.Replace([]Transaction{NewExpense(d("5"), food), NewExpense(d("7"), food)}, map[Category]decimal.Decimal{salary: d("1")})
	if w.Len() != 2 || !w.Balance().Equal(d("-12")) {
		t.Fatalf("unexpected wallet after replace: len=%d balance=%s", w.Len(), w.Balance())
	}
	if _, ok := w.Budget(food); ok {
		t.Fatalf("replace must drop previous budgets")
	}
	if w.Transactions()[1].Amount.String() != "7" {
		t.Fatalf("replace must keep order")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := NewRegistry()
	w := NewWallet()
	w.AddTransaction(NewIncome(d("1000"), r.GetOrCreate("Salary")))
	w.AddTransaction(NewExpense(d("150"), r.GetOrCreate("Food")))
	w.SetBudget(r.GetOrCreate("Food"), d("500"))

	other := NewRegistry()
	got, err := RestoreWallet(w.Snapshot(), other)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.Len() != 2 || !got.Balance().Equal(d("850")) {
		t.Fatalf("unexpected restored wallet: len=%d balance=%s", got.Len(), got.Balance())
	}
	food, ok := other.Lookup("Food")
	if !ok {
		t.Fatalf("restore should intern categories")
	}
	if b, _ := got.Budget(food); !b.Equal(d("500")) {
		t.Fatalf("unexpected budget %s", b)
	}
}

func TestRestoreWalletRejectsBadSnapshot(t *testing.T) {
	r := NewRegistry()
	bad := Snapshot{Transactions: []SnapshotTransaction{
		{Kind: Income, Amount: "10", Category: "Salary"},
		{Kind: Expense, Amount: "oops", Category: "Food"},
	}}
	if _, err := RestoreWallet(bad, r); err == nil {
		t.Fatalf("expected error")
	}
	if r.Len() != 0 {
		t.Fatalf("a rejected snapshot must not create categories, got %v", r.Names())
	}
}
