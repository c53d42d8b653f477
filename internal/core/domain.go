package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

type (
	// Kind tags a transaction as money coming in or going out.
	Kind string

	Transaction struct {
		Kind     Kind
		Amount   decimal.Decimal
		Category Category
	}

	// Credential is a registered user. The password is compared verbatim.
	Credential struct {
		Login    string
		Password string
	}
)

var (
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyLogin      = errors.New("empty login")
	ErrEmptyPassword   = errors.New("empty password")
	ErrUnknownCategory = errors.New("unknown category")
)

// ParseKind accepts INCOME or EXPENSE in any letter case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case Income, Expense:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Validate() error {
	if k != Income && k != Expense {
		return ErrInvalidKind
	}
	return nil
}

// NewIncome builds an income transaction. Amount positivity is the caller's concern.
func NewIncome(amount decimal.Decimal, c Category) Transaction {
	return Transaction{Kind: Income, Amount: amount, Category: c}
}

// NewExpense builds an expense transaction. Amount positivity is the caller's concern.
func NewExpense(amount decimal.Decimal, c Category) Transaction {
	return Transaction{Kind: Expense, Amount: amount, Category: c}
}

// Signed returns the amount with the sign it contributes to a balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if t.Category.IsZero() {
		return ErrEmptyCategory
	}
	return nil
}

func (c Credential) Validate() error {
	if strings.TrimSpace(c.Login) == "" {
		return ErrEmptyLogin
	}
	if c.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Matches reports whether password is exactly the stored one.
func (c Credential) Matches(password string) bool {
	return c.Password == password
}
