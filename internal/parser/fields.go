package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// storeScanWindow limits the store search to the top of the receipt
const storeScanWindow = 5

// extractStore scans the first lines of the receipt for a store name.
// Recognizer tiers are tried in fixed priority order: known retailers,
// retailer-shaped patterns, then a generic business-name pattern; the
// first match wins and no later tier or line is consulted.
//
// Known limitation: when an address line precedes the store name the
// generic tier can pick the wrong line. Receipt layouts vary by retailer
// and the window heuristic does not disambiguate them.
func (t *PatternTable) extractStore(lines []pline) string {
	window := lines
	if len(window) > storeScanWindow {
		window = window[:storeScanWindow]
	}

	for _, l := range window {
		if name, ok := t.matchRetailer(l.text); ok {
			return name
		}
	}

	for _, l := range window {
		for _, re := range t.storeRes {
			m := re.FindStringSubmatch(l.text)
			if m == nil {
				continue
			}
			if len(m) > 1 && m[1] != "" {
				return strings.TrimSpace(m[1])
			}
			return strings.TrimSpace(m[0])
		}
	}

	for _, l := range window {
		if t.genericStore.MatchString(l.text) {
			return l.text
		}
	}

	return ""
}

// extractDate scans all lines for the first parseable date and normalizes
// it to YYYY-MM-DD
func (t *PatternTable) extractDate(lines []pline) string {
	for _, l := range lines {
		for _, dp := range t.dates {
			m := dp.re.FindStringSubmatch(l.text)
			if m == nil {
				continue
			}
			parsed, err := time.Parse(dp.layout, m[1])
			if err != nil {
				// Matched shape but impossible date (e.g. 99.99.2024)
				continue
			}
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

// extractTime scans all lines for the first clock time
func (t *PatternTable) extractTime(lines []pline) string {
	for _, l := range lines {
		if m := t.timeRe.FindStringSubmatch(l.text); m != nil {
			return m[1]
		}
	}
	return ""
}

// amountResult carries an extracted amount, or the raw text of the best
// candidate when normalization failed
type amountResult struct {
	value *decimal.Decimal
	raw   string
}

// extractKeywordAmount scans the lines in reverse (bottom of the receipt
// first) for one containing a keyword followed by an amount
func (t *PatternTable) extractKeywordAmount(lines []pline, keywordRe *regexp.Regexp) amountResult {
	var res amountResult
	for i := len(lines) - 1; i >= 0; i-- {
		l := lines[i]
		if !keywordRe.MatchString(l.text) {
			continue
		}
		matches := t.amountRe.FindAllString(l.text, -1)
		if len(matches) == 0 {
			continue
		}
		// Prices sit at the end of the line; take the last amount
		raw := matches[len(matches)-1]
		if d, ok := ParseAmount(raw); ok {
			res.value = &d
			return res
		}
		if res.raw == "" {
			res.raw = raw
		}
	}
	return res
}

// extractTotal finds the receipt total by keyword line first. OCR output
// often loses the keyword text but keeps the terminal price, so when no
// keyword line yields a valid amount the search falls back to the last
// amount-bearing line in the whole receipt.
func (t *PatternTable) extractTotal(lines []pline) amountResult {
	res := t.extractKeywordAmount(lines, t.totalLineRe)
	if res.value != nil {
		return res
	}

	for i := len(lines) - 1; i >= 0; i-- {
		matches := t.amountRe.FindAllString(lines[i].text, -1)
		if len(matches) == 0 {
			continue
		}
		raw := matches[len(matches)-1]
		if d, ok := ParseAmount(raw); ok {
			res.value = &d
			return res
		}
		if res.raw == "" {
			res.raw = raw
		}
	}
	return res
}

// extractSubtotal finds the subtotal; absence is never an error
func (t *PatternTable) extractSubtotal(lines []pline) *decimal.Decimal {
	return t.extractKeywordAmount(lines, t.subtotalRe).value
}

// extractTax finds the tax amount; absence is never an error
func (t *PatternTable) extractTax(lines []pline) *decimal.Decimal {
	return t.extractKeywordAmount(lines, t.taxRe).value
}
