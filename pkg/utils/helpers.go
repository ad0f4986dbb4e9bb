package utils

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FCurrency formats an amount with thousands separators and two decimals.
func FCurrency(n decimal.Decimal) string {
	rounded := n.Round(2)
	whole := humanize.Comma(rounded.IntPart())
	if rounded.IsNegative() && rounded.IntPart() == 0 {
		whole = "-" + whole
	}

	fraction := rounded.Abs().StringFixed(2)
	return whole + fraction[strings.IndexByte(fraction, '.'):]
}

// RemoveSpecialChars collapses whitespace so SQL fits on one log line.
func RemoveSpecialChars(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func StrEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
