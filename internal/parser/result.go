package parser

import "github.com/shopspring/decimal"

// IssueKind identifies the kind of a parse issue
type IssueKind string

const (
	// IssueMissingRequiredField - a required field (store, date, total) was not found
	IssueMissingRequiredField IssueKind = "missing_required_field"
	// IssueInvalidCurrencyFormat - an amount was located but could not be normalized
	IssueInvalidCurrencyFormat IssueKind = "invalid_currency_format"
	// IssueNoItemsFound - no line items could be extracted
	IssueNoItemsFound IssueKind = "no_items_found"
	// IssueValidationFailed - a cross-field consistency check failed
	IssueValidationFailed IssueKind = "validation_failed"
	// IssueUnknownStore - a store name was found but is not a known retailer
	IssueUnknownStore IssueKind = "unknown_store"
)

// Issue describes an expected data-quality problem found during parsing.
// Issues are values, not Go errors: the engine never fails on bad receipt
// data, it degrades and reports.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Detail   string    `json:"detail,omitempty"` // field name, raw text or check name, depending on Kind
	Critical bool      `json:"critical"`
}

// LineItem is one purchased product entry on the receipt
type LineItem struct {
	RawText    string           `json:"raw_text"`
	Name       string           `json:"name,omitempty"`
	Quantity   int              `json:"quantity"` // >= 1
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Confidence float64          `json:"confidence"`
	// SourceLine is the index of the originating line in the input
	// sequence, used only for bounding-box lookup
	SourceLine int `json:"source_line"`
}

// ParsedReceipt is the structured result of a single parse invocation.
// It is immutable after construction and owned by the caller.
type ParsedReceipt struct {
	StoreName   string           `json:"store_name,omitempty"`
	ReceiptDate string           `json:"receipt_date,omitempty"` // YYYY-MM-DD
	ReceiptTime string           `json:"receipt_time,omitempty"` // HH:MM or HH:MM:SS
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Subtotal    *decimal.Decimal `json:"subtotal,omitempty"`
	TaxAmount   *decimal.Decimal `json:"tax_amount,omitempty"`
	Items       []LineItem       `json:"items"`
	Confidence  float64          `json:"confidence"` // always within [0.1, 1.0]
	Issues      []Issue          `json:"issues"`
}

// HasCriticalIssues reports whether the result should not be trusted
// without user review
func (r *ParsedReceipt) HasCriticalIssues() bool {
	for _, issue := range r.Issues {
		if issue.Critical {
			return true
		}
	}
	return false
}
