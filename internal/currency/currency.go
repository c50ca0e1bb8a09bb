// Package currency renders amounts held in minor units (cents) as
// display strings.  All arithmetic is integer-only; no floating point
// is involved and no conversion between currencies is performed.
package currency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	xcurrency "golang.org/x/text/currency"
)

// ErrUnsupportedCurrency is returned by ForCode for codes that are not
// valid ISO 4217 currency codes.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Locale describes how a currency amount is displayed.
//
// Fields:
//  Code             – ISO 4217 code, upper case (e.g. "USD").
//  Symbol           – prefix printed before the amount (e.g. "$").
//  Decimals         – number of minor-unit digits (2 for cents, 0 for yen).
//  GroupSeparator   – thousands separator in the major part.
//  DecimalSeparator – separator between major and minor parts.
type Locale struct {
	Code             string
	Symbol           string
	Decimals         int
	GroupSeparator   string
	DecimalSeparator string
}

// USD is the default locale: "$1,234.56".
var USD = Locale{
	Code:             "USD",
	Symbol:           "$",
	Decimals:         2,
	GroupSeparator:   ",",
	DecimalSeparator: ".",
}

// symbols holds display symbols for the currencies we know by sight.
// Anything else is printed as "<CODE> ".
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF ",
	"NZD": "NZ$",
	"SEK": "kr ",
}

// ForCode builds a Locale for the given ISO 4217 code.  The number of
// decimals comes from the CLDR data shipped with golang.org/x/text.
// Separators follow the US convention.
func ForCode(code string) (Locale, error) {
	unit, err := xcurrency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return Locale{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	iso := unit.String()
	scale, _ := xcurrency.Standard.Rounding(unit)
	sym, ok := symbols[iso]
	if !ok {
		sym = iso + " "
	}
	return Locale{
		Code:             iso,
		Symbol:           sym,
		Decimals:         scale,
		GroupSeparator:   USD.GroupSeparator,
		DecimalSeparator: USD.DecimalSeparator,
	}, nil
}

// Format renders an amount in minor units using loc, for example
// Format(173000, USD) == "$1,730.00".  Negative amounts get a leading
// minus sign before the symbol.
func Format(minor int64, loc Locale) string {
	negative := minor < 0
	abs := uint64(minor)
	if negative {
		abs = uint64(-minor)
	}

	divisor := uint64(1)
	for i := 0; i < loc.Decimals; i++ {
		divisor *= 10
	}
	major := abs / divisor
	frac := abs % divisor

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(loc.Symbol)
	b.WriteString(group(strconv.FormatUint(major, 10), loc.GroupSeparator))
	if loc.Decimals > 0 {
		b.WriteString(loc.DecimalSeparator)
		fmt.Fprintf(&b, "%0*d", loc.Decimals, frac)
	}
	return b.String()
}

// group inserts sep between every three digits counted from the right.
func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
