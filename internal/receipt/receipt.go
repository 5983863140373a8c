package receipt

import (
	"time"

	"github.com/bonscan/bonscan/internal/ocr"
	"github.com/bonscan/bonscan/internal/parser"
)

// Item is one purchased product entry, with prices in cents
type Item struct {
	RawText         string  `json:"raw_text"`
	Name            string  `json:"name,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPriceCents  *int64  `json:"unit_price_cents,omitempty"`
	TotalPriceCents int64   `json:"total_price_cents"`
	Confidence      float64 `json:"confidence"`
	SourceLine      int     `json:"source_line"`
}

// Receipt represents a scanned receipt with its extracted fields
type Receipt struct {
	ID            string         `json:"id"`
	StoreName     string         `json:"store_name,omitempty"`
	Date          time.Time      `json:"date"` // zero when no date could be extracted
	Time          string         `json:"time,omitempty"`
	TotalCents    *int64         `json:"total_cents,omitempty"`
	SubtotalCents *int64         `json:"subtotal_cents,omitempty"`
	TaxCents      *int64         `json:"tax_cents,omitempty"`
	Items         []Item         `json:"items"`
	Confidence    float64        `json:"confidence"`
	Issues        []parser.Issue `json:"issues"`
	// Lines keeps the raw OCR output so the receipt can be re-parsed
	// after a pattern update and item bounding boxes resolved for
	// highlighting
	Lines       []ocr.Line `json:"lines,omitempty"`
	Reviewed    bool       `json:"reviewed"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NeedsReview reports whether the extraction left critical issues that a
// user has not yet confirmed or corrected
func (r *Receipt) NeedsReview() bool {
	if r.Reviewed {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Critical {
			return true
		}
	}
	return false
}
