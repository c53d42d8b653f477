// Package csvio moves a wallet's transactions and budgets to and from a pair of
// CSV files per user.
package csvio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"moneybook/internal/core"
)

const (
	TransactionsHeader = "Type,Amount,Category"
	BudgetsHeader      = "Category,Amount"

	maxLineLength = 1 << 20
)

// ErrUnwritableCategory is returned on export for a category name that the
// line format cannot hold.
var ErrUnwritableCategory = errors.New("category name contains a comma or line break")

// ValidationError locates the first problem found in an import file. Line 1
// is the header.
type ValidationError struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Reason)
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type (
	// TransactionRecord is a validated transactions row. The category is kept
	// by name until the import is committed.
	TransactionRecord struct {
		Kind     core.Kind
		Amount   decimal.Decimal
		Category string
	}

	BudgetRecord struct {
		Category string
		Amount   decimal.Decimal
	}
)

// lineReader yields the lines of an import file with their 1-based numbers.
// Only the line terminator is stripped; everything else is kept verbatim.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLength)
	return &lineReader{sc: sc}
}

// next returns the following line, or io.EOF after the last one.
func (lr *lineReader) next() (string, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", &ValidationError{Line: lr.line + 1, Reason: "read: " + err.Error(), Err: err}
		}
		return "", io.EOF
	}
	lr.line++
	return strings.TrimSuffix(lr.sc.Text(), "\r"), nil
}

// header consumes the first line and checks it equals want exactly.
func (lr *lineReader) header(want string) error {
	got, err := lr.next()
	if errors.Is(err, io.EOF) {
		return &ValidationError{Line: 1, Reason: "missing header"}
	}
	if err != nil {
		return err
	}
	if got != want {
		return &ValidationError{Line: 1, Reason: fmt.Sprintf("header %q, want %q", got, want)}
	}
	return nil
}

// row reads the next line and splits it on commas. Quotes have no meaning,
// so a quoted field holding a comma counts as two fields.
func (lr *lineReader) row(fields int) ([]string, error) {
	text, err := lr.next()
	if err != nil {
		return nil, err
	}
	rec := strings.Split(text, ",")
	if len(rec) != fields {
		return nil, rowError(lr.line, nil, "expected %d fields, got %d", fields, len(rec))
	}
	return rec, nil
}

func rowError(line int, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Line: line, Reason: fmt.Sprintf(format, args...), Err: err}
}

// ParseTransactions reads a transactions file completely. It stops at the
// first bad row.
func ParseTransactions(r io.Reader) ([]TransactionRecord, error) {
	lr := newLineReader(r)
	if err := lr.header(TransactionsHeader); err != nil {
		return nil, err
	}

	var out []TransactionRecord
	for {
		rec, err := lr.row(3)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		kind, err := core.ParseKind(rec[0])
		if err != nil {
			return nil, rowError(lr.line, err, "invalid type %q", rec[0])
		}
		amount, err := core.ParseAmount(rec[1])
		if err != nil {
			return nil, rowError(lr.line, err, "invalid amount %q", rec[1])
		}
		name := strings.TrimSpace(rec[2])
		if name == "" {
			return nil, rowError(lr.line, core.ErrEmptyCategory, "empty category")
		}
		out = append(out, TransactionRecord{Kind: kind, Amount: amount, Category: name})
	}
}

// ParseBudgets reads a budgets file completely. A category listed twice keeps
// the later amount.
func ParseBudgets(r io.Reader) ([]BudgetRecord, error) {
	lr := newLineReader(r)
	if err := lr.header(BudgetsHeader); err != nil {
		return nil, err
	}

	var out []BudgetRecord
	for {
		rec, err := lr.row(2)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, rowError(lr.line, core.ErrEmptyCategory, "empty category")
		}
		amount, err := core.ParseAmount(rec[1])
		if err != nil {
			return nil, rowError(lr.line, err, "invalid amount %q", rec[1])
		}
		out = append(out, BudgetRecord{Category: name, Amount: amount})
	}
}

// WriteTransactions writes the header and one row per transaction in order.
// Fields are written verbatim.
func WriteTransactions(w io.Writer, txs []core.Transaction) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(TransactionsHeader + "\n")
	for _, tx := range txs {
		if err := checkWritable(tx.Category); err != nil {
			return err
		}
		bw.WriteString(strings.Join([]string{tx.Kind.String(), core.FormatAmount(tx.Amount), tx.Category.Name()}, ",") + "\n")
	}
	return bw.Flush()
}

// WriteBudgets writes the header and one row per budget, sorted by category.
func WriteBudgets(w io.Writer, budgets map[core.Category]decimal.Decimal) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(BudgetsHeader + "\n")
	for _, c := range sortedCategories(budgets) {
		if err := checkWritable(c); err != nil {
			return err
		}
		bw.WriteString(c.Name() + "," + core.FormatAmount(budgets[c]) + "\n")
	}
	return bw.Flush()
}

func checkWritable(c core.Category) error {
	if strings.ContainsAny(c.Name(), ",\r\n") {
		return fmt.Errorf("%q: %w", c.Name(), ErrUnwritableCategory)
	}
	return nil
}

func sortedCategories(budgets map[core.Category]decimal.Decimal) []core.Category {
	cats := make([]core.Category, 0, len(budgets))
	for c := range budgets {
		cats = append(cats, c)
	}
	slices.SortFunc(cats, func(a, b core.Category) int { return strings.Compare(a.Name(), b.Name()) })
	return cats
}
