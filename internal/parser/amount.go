package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a German/Austrian formatted currency fragment
// ("1.234,56", "12,99", ",99", "12,99 €") into a decimal value. The input
// is expected to be a fragment already isolated by a pattern match; ok is
// false when the cleaned string is not a parseable amount. Callers treat
// failure as "no amount found here" and keep scanning.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	cleaned = strings.ReplaceAll(cleaned, "EUR", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	// Thousands separators go first, then the decimal separator flips
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	// A fragment of bare separators and signs is not an amount
	if !strings.ContainsAny(cleaned, "0123456789") {
		return decimal.Decimal{}, false
	}

	// ",99" cleans to ".99"
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	if strings.HasPrefix(cleaned, "-.") {
		cleaned = "-0" + cleaned[1:]
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
