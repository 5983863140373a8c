// Package parser turns raw, noisy OCR output into a structured, validated
// receipt record with an overall confidence score. Parsing is a pure
// function over an immutable pattern table: a single Parser may be shared
// by any number of concurrent parses without synchronization.
package parser

import (
	"fmt"

	"github.com/bonscan/bonscan/internal/ocr"
)

// Parser is the receipt extraction engine. It holds no mutable state.
type Parser struct {
	cfg   Config
	table *PatternTable
}

// New compiles the configuration into a Parser
func New(cfg Config) (*Parser, error) {
	table, err := NewPatternTable(cfg)
	if err != nil {
		return nil, fmt.Errorf("building pattern table: %w", err)
	}
	return &Parser{cfg: cfg, table: table}, nil
}

// Config returns the configuration the parser was built from
func (p *Parser) Config() Config {
	return p.cfg
}

// Parse extracts a structured receipt from the ordered OCR lines. It never
// fails: malformed input degrades to absent fields plus issue entries, and
// the only failure signal to the caller is a low confidence and/or a
// critical issue.
func (p *Parser) Parse(lines []ocr.Line) ParsedReceipt {
	clean := preprocess(lines)

	result := ParsedReceipt{
		Items:  []LineItem{},
		Issues: []Issue{},
	}

	result.StoreName = p.table.extractStore(clean)
	result.ReceiptDate = p.table.extractDate(clean)
	result.ReceiptTime = p.table.extractTime(clean)

	total := p.table.extractTotal(clean)
	result.TotalAmount = total.value
	result.Subtotal = p.table.extractSubtotal(clean)
	result.TaxAmount = p.table.extractTax(clean)

	result.Items = p.table.extractItems(clean, p.cfg.HeaderLineCount, p.cfg.FooterLineCount)
	if result.Items == nil {
		result.Items = []LineItem{}
	}

	p.validate(&result, total.raw, meanConfidence(clean))

	return result
}
