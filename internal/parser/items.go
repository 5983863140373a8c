package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// shortReceiptLines is the cutoff below which the smaller header/footer
// windows apply
const shortReceiptLines = 10

var nameDigitsOnly = regexp.MustCompile(`^[\d\s.,]+$`)

// extractItems segments the item region of the receipt into line items.
// The positional header (store/date block) and footer (totals block)
// windows are dropped first, then skip lines are filtered, then the
// ordered item patterns are tried per line, most specific first. Lines
// matching no pattern are OCR noise and dropped silently.
func (t *PatternTable) extractItems(lines []pline, headerCount, footerCount int) []LineItem {
	if len(lines) < shortReceiptLines {
		headerCount, footerCount = 1, 2
	}
	if len(lines) <= headerCount+footerCount {
		return nil
	}
	region := lines[headerCount : len(lines)-footerCount]

	var items []LineItem
	for _, l := range region {
		if t.isSkipLine(l.text) {
			continue
		}
		if item, ok := t.parseItemLine(l); ok {
			items = append(items, item)
		}
	}
	return items
}

// parseItemLine tries the ordered item patterns against one line
func (t *PatternTable) parseItemLine(l pline) (LineItem, bool) {
	for _, ip := range t.items {
		m := ip.re.FindStringSubmatch(l.text)
		if m == nil {
			continue
		}

		total, ok := ParseAmount(m[ip.totalPriceGroup])
		if !ok || total.IsNegative() {
			continue
		}

		name := cleanItemName(m[ip.nameGroup])
		if name == "" {
			continue
		}

		quantity := 1
		if ip.quantityGroup != 0 {
			if q, err := strconv.Atoi(m[ip.quantityGroup]); err == nil && q >= 1 {
				quantity = q
			}
		}

		var unitPrice *decimal.Decimal
		if ip.unitPriceGroup != 0 && m[ip.unitPriceGroup] != "" {
			if u, ok := ParseAmount(m[ip.unitPriceGroup]); ok && !u.IsNegative() {
				unitPrice = &u
			}
		}
		if unitPrice == nil && quantity > 1 {
			u := total.DivRound(decimal.NewFromInt(int64(quantity)), 2)
			unitPrice = &u
		}

		return LineItem{
			RawText:    l.text,
			Name:       name,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: total,
			Confidence: l.confidence,
			SourceLine: l.source,
		}, true
	}
	return LineItem{}, false
}

// cleanItemName normalizes whitespace and rejects names that are nothing
// but digits (stray price or EAN fragments)
func cleanItemName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || nameDigitsOnly.MatchString(name) {
		return ""
	}
	return name
}
