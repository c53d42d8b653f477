package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneybook/internal/core"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func wallet(r *core.Registry) *core.Wallet {
	w := core.NewWallet()
	w.AddTransaction(core.NewIncome(d("1000"), r.GetOrCreate("Salary")))
	w.AddTransaction(core.NewIncome(d("200"), r.GetOrCreate("Gift")))
	w.AddTransaction(core.NewIncome(d("50"), r.GetOrCreate("Salary")))
	w.AddTransaction(core.NewExpense(d("300"), r.GetOrCreate("Food")))
	w.AddTransaction(core.NewExpense(d("120.5"), r.GetOrCreate("Food")))
	w.AddTransaction(core.NewExpense(d("40"), r.GetOrCreate("Taxi")))
	w.SetBudget(r.GetOrCreate("Food"), d("400"))
	w.SetBudget(r.GetOrCreate("Fun"), d("100"))
	return w
}

func TestFull(t *testing.T) {
	s := Full(wallet(core.NewRegistry()))

	assert.True(t, s.TotalIncome.Equal(d("1250")))
	assert.True(t, s.TotalExpense.Equal(d("460.5")))
	assert.True(t, s.Balance.Equal(d("789.5")))

	require.Len(t, s.IncomeByCategory, 2)
	assert.Equal(t, "Gift", s.IncomeByCategory[0].Category)
	assert.Equal(t, "Salary", s.IncomeByCategory[1].Category)
	assert.True(t, s.IncomeByCategory[1].Amount.Equal(d("1050")))

	require.Len(t, s.ExpenseByCategory, 2)
	assert.True(t, s.ExpenseByCategory[0].Amount.Equal(d("420.5")))

	require.Len(t, s.Budgets, 2)
	assert.Equal(t, "Food", s.Budgets[0].Category)
	assert.True(t, s.Budgets[0].Remaining.Equal(d("-20.5")))
	assert.Equal(t, "Fun", s.Budgets[1].Category)
	assert.True(t, s.Budgets[1].Remaining.Equal(d("100")))
}

func TestFullEmptyWallet(t *testing.T) {
	s := Full(core.NewWallet())
	assert.True(t, s.TotalIncome.IsZero())
	assert.Empty(t, s.IncomeByCategory)
	assert.Empty(t, s.Budgets)
}

func TestByCategories(t *testing.T) {
	r := core.NewRegistry()
	w := wallet(r)
	salary, _ := r.Lookup("Salary")
	food, _ := r.Lookup("Food")

	s := ByCategories(w, []core.Category{salary, food, salary})
	assert.Equal(t, []string{"Salary", "Food"}, s.Categories)
	assert.True(t, s.TotalIncome.Equal(d("1050")))
	assert.True(t, s.TotalExpense.Equal(d("420.5")))

	empty := ByCategories(w, nil)
	assert.True(t, empty.TotalIncome.IsZero())
	var buf bytes.Buffer
	require.NoError(t, empty.Write(&buf))
	assert.Equal(t, "No categories selected.\n", buf.String())
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Full(wallet(core.NewRegistry())).Write(&buf))
	out := buf.String()
	assert.Contains(t, out, "Total income: 1250.00\n")
	assert.Contains(t, out, "  Salary: 1050.00\n")
	assert.Contains(t, out, "  Food: 400.00, remaining: -20.50\n")
	assert.Contains(t, out, "Balance: 789.50\n")
}
