package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// genericStorePattern is the last-resort store recognizer: a capitalized
// word sequence of 3-30 characters with no digits
const genericStorePattern = `^[A-ZÄÖÜ][A-Za-zÄÖÜäöüß&.\-' ]{2,29}$`

type datePattern struct {
	re     *regexp.Regexp
	layout string
}

type itemPattern struct {
	re              *regexp.Regexp
	quantityGroup   int
	nameGroup       int
	unitPriceGroup  int
	totalPriceGroup int
}

// PatternTable holds the compiled, ordered recognizers driving all field
// extraction. It is built once from a Config and never mutated afterwards,
// so a single table may be shared by any number of concurrent parses.
type PatternTable struct {
	retailers      []string
	retailerRes    []*regexp.Regexp
	storeRes       []*regexp.Regexp
	genericStore   *regexp.Regexp
	dates          []datePattern
	timeRe         *regexp.Regexp
	totalLineRe    *regexp.Regexp
	subtotalRe     *regexp.Regexp
	taxRe          *regexp.Regexp
	amountRe       *regexp.Regexp
	skipKeywordRes []*regexp.Regexp
	skipRes        []*regexp.Regexp
	items          []itemPattern
}

// NewPatternTable compiles a Config into an immutable PatternTable. An
// uncompilable pattern is a programming error in the configuration and is
// reported as a plain error, never as a parse issue.
func NewPatternTable(cfg Config) (*PatternTable, error) {
	t := &PatternTable{
		retailers: cfg.KnownRetailers,
	}

	for _, name := range cfg.KnownRetailers {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compiling retailer pattern %q: %w", name, err)
		}
		t.retailerRes = append(t.retailerRes, re)
	}

	for _, p := range cfg.StorePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling store pattern %q: %w", p, err)
		}
		t.storeRes = append(t.storeRes, re)
	}
	t.genericStore = regexp.MustCompile(genericStorePattern)

	for _, df := range cfg.DateFormats {
		re, err := regexp.Compile(df.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling date pattern %q: %w", df.Pattern, err)
		}
		t.dates = append(t.dates, datePattern{re: re, layout: df.Layout})
	}

	timeRe, err := regexp.Compile(cfg.TimePattern)
	if err != nil {
		return nil, fmt.Errorf("compiling time pattern %q: %w", cfg.TimePattern, err)
	}
	t.timeRe = timeRe

	t.totalLineRe, err = keywordRegexp(cfg.TotalKeywords)
	if err != nil {
		return nil, fmt.Errorf("compiling total keywords: %w", err)
	}
	t.subtotalRe, err = keywordRegexp(cfg.SubtotalKeywords)
	if err != nil {
		return nil, fmt.Errorf("compiling subtotal keywords: %w", err)
	}
	t.taxRe, err = keywordRegexp(cfg.TaxKeywords)
	if err != nil {
		return nil, fmt.Errorf("compiling tax keywords: %w", err)
	}

	t.amountRe = regexp.MustCompile(amountFragment)

	for _, k := range cfg.SkipKeywords {
		re, err := regexp.Compile(boundedKeywordPattern(k))
		if err != nil {
			return nil, fmt.Errorf("compiling skip keyword %q: %w", k, err)
		}
		t.skipKeywordRes = append(t.skipKeywordRes, re)
	}
	for _, p := range cfg.SkipPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling skip pattern %q: %w", p, err)
		}
		t.skipRes = append(t.skipRes, re)
	}

	for _, ip := range cfg.ItemPatterns {
		re, err := regexp.Compile(ip.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling item pattern %q: %w", ip.Pattern, err)
		}
		if ip.NameGroup == 0 || ip.TotalPriceGroup == 0 {
			return nil, fmt.Errorf("item pattern %q: name and total price groups are required", ip.Pattern)
		}
		maxGroup := re.NumSubexp()
		for _, g := range []int{ip.QuantityGroup, ip.NameGroup, ip.UnitPriceGroup, ip.TotalPriceGroup} {
			if g > maxGroup {
				return nil, fmt.Errorf("item pattern %q: group %d out of range (pattern has %d)", ip.Pattern, g, maxGroup)
			}
		}
		t.items = append(t.items, itemPattern{
			re:              re,
			quantityGroup:   ip.QuantityGroup,
			nameGroup:       ip.NameGroup,
			unitPriceGroup:  ip.UnitPriceGroup,
			totalPriceGroup: ip.TotalPriceGroup,
		})
	}

	return t, nil
}

// boundedKeywordPattern anchors a keyword on word boundaries where it
// borders word characters. Short payment words (BAR, UST) must not match
// inside product names like "Barilla".
func boundedKeywordPattern(k string) string {
	pattern := regexp.QuoteMeta(k)
	if len(k) > 0 && isWordByte(k[0]) {
		pattern = `\b` + pattern
	}
	if len(k) > 0 && isWordByte(k[len(k)-1]) {
		pattern = pattern + `\b`
	}
	return `(?i)` + pattern
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// keywordRegexp builds a case-insensitive alternation over a keyword set
func keywordRegexp(keywords []string) (*regexp.Regexp, error) {
	if len(keywords) == 0 {
		// Never matches; an empty keyword set disables the extractor
		return regexp.Compile(`\A\z.`)
	}
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(k))
	}
	return regexp.Compile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

// isSkipLine reports whether a line is boilerplate that never yields items
func (t *PatternTable) isSkipLine(text string) bool {
	for _, re := range t.skipRes {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range t.skipKeywordRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// matchRetailer returns the canonical retailer name contained in the line
func (t *PatternTable) matchRetailer(text string) (string, bool) {
	for i, re := range t.retailerRes {
		if re.MatchString(text) {
			return t.retailers[i], true
		}
	}
	return "", false
}
