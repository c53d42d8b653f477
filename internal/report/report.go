// Package report summarises a wallet by category.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"moneybook/internal/core"
)

// Line is a total for one category.
type Line struct {
	Category string
	Amount   decimal.Decimal
}

// BudgetLine is a budget with what is left of it. Remaining is negative once
// the budget is exceeded.
type BudgetLine struct {
	Category  string
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// Summary is the full report for a wallet. Every list is sorted by category.
type Summary struct {
	TotalIncome       decimal.Decimal
	IncomeByCategory  []Line
	TotalExpense      decimal.Decimal
	ExpenseByCategory []Line
	Budgets           []BudgetLine
	Balance           decimal.Decimal
}

// CategorySummary restricts income and expense totals to chosen categories.
type CategorySummary struct {
	Categories   []string
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

func Full(w *core.Wallet) Summary {
	income := map[string]decimal.Decimal{}
	expense := map[string]decimal.Decimal{}
	for _, tx := range w.Transactions() {
		name := tx.Category.Name()
		switch tx.Kind {
		case core.Income:
			income[name] = income[name].Add(tx.Amount)
		case core.Expense:
			expense[name] = expense[name].Add(tx.Amount)
		}
	}

	s := Summary{
		TotalIncome:       w.TotalIncome(),
		IncomeByCategory:  lines(income),
		TotalExpense:      w.TotalExpense(),
		ExpenseByCategory: lines(expense),
		Balance:           w.Balance(),
	}
	for c, budget := range w.Budgets() {
		spent := expense[c.Name()]
		s.Budgets = append(s.Budgets, BudgetLine{
			Category:  c.Name(),
			Budget:    budget,
			Spent:     spent,
			Remaining: budget.Sub(spent),
		})
	}
	slices.SortFunc(s.Budgets, func(a, b BudgetLine) int { return strings.Compare(a.Category, b.Category) })
	return s
}

func lines(totals map[string]decimal.Decimal) []Line {
	out := make([]Line, 0, len(totals))
	for name, amount := range totals {
		out = append(out, Line{Category: name, Amount: amount})
	}
	slices.SortFunc(out, func(a, b Line) int { return strings.Compare(a.Category, b.Category) })
	return out
}

// ByCategories totals income and expense over the given categories only.
func ByCategories(w *core.Wallet, categories []core.Category) CategorySummary {
	s := CategorySummary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	seen := map[core.Category]bool{}
	for _, c := range categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		s.Categories = append(s.Categories, c.Name())
		s.TotalIncome = s.TotalIncome.Add(w.EarnedIn(c))
		s.TotalExpense = s.TotalExpense.Add(w.SpentIn(c))
	}
	return s
}

// Write renders s as plain text.
func (s Summary) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total income: %s\n", money(s.TotalIncome))
	b.WriteString("Income by category:\n")
	for _, l := range s.IncomeByCategory {
		fmt.Fprintf(&b, "  %s: %s\n", l.Category, money(l.Amount))
	}
	fmt.Fprintf(&b, "Total expense: %s\n", money(s.TotalExpense))
	b.WriteString("Expense by category:\n")
	for _, l := range s.ExpenseByCategory {
		fmt.Fprintf(&b, "  %s: %s\n", l.Category, money(l.Amount))
	}
	b.WriteString("Budgets:\n")
	for _, l := range s.Budgets {
		fmt.Fprintf(&b, "  %s: %s, remaining: %s\n", l.Category, money(l.Budget), money(l.Remaining))
	}
	fmt.Fprintf(&b, "Balance: %s\n", money(s.Balance))
	_, err := io.WriteString(w, b.String())
	return err
}

// Write renders s as plain text.
func (s CategorySummary) Write(w io.Writer) error {
	if len(s.Categories) == 0 {
		_, err := io.WriteString(w, "No categories selected.\n")
		return err
	}
	_, err := fmt.Fprintf(w, "Categories: %s\nTotal income: %s\nTotal expense: %s\n",
		strings.Join(s.Categories, ", "), money(s.TotalIncome), money(s.TotalExpense))
	return err
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
