// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and checking that they are usable as transaction or budget amounts.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive amount.
//
// Surrounding whitespace is ignored and exponent notation is accepted, as
// produced by some spreadsheet exports. Zero, negative, unparsable and
// oversized values are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount(" 1e3 ") -> 1000, nil
//	ParseAmount("0")     -> 0, ErrInvalidAmount
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

const (
	// maxAmountScale bounds the exponent of an amount in either direction.
	maxAmountScale = 18
	// maxAmountDigits bounds the significant digits of an amount.
	maxAmountDigits = 30
)

// ValidateAmount reports ErrInvalidAmount unless d is strictly positive and
// within maxAmountDigits digits and an exponent of ±maxAmountScale.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	if exp := d.Exponent(); exp > maxAmountScale || exp < -maxAmountScale {
		return ErrInvalidAmount
	}
	if d.NumDigits() > maxAmountDigits {
		return ErrInvalidAmount
	}
	return nil
}

// FormatAmount renders d the way it is written to CSV files and reports.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}
