package parser

import (
	"github.com/shopspring/decimal"
)

// Confidence adjustments applied by the scorer
const (
	criticalIssuePenalty    = 0.25
	nonCriticalIssuePenalty = 0.10
	anyItemsBonus           = 0.10
	manyItemsBonus          = 0.05
	manyItemsThreshold      = 3
	confidenceFloor         = 0.1
	confidenceCeiling       = 1.0
)

// validate runs the cross-field consistency checks over the accumulated
// extraction results and derives the final confidence score. It is a pure
// function of the extracted fields, the items and the OCR confidence.
func (p *Parser) validate(r *ParsedReceipt, totalRaw string, ocrConfidence float64) {
	if r.StoreName == "" {
		r.Issues = append(r.Issues, Issue{Kind: IssueMissingRequiredField, Detail: "storeName"})
	}
	if r.ReceiptDate == "" {
		r.Issues = append(r.Issues, Issue{Kind: IssueMissingRequiredField, Detail: "receiptDate"})
	}
	if r.TotalAmount == nil {
		r.Issues = append(r.Issues, Issue{
			Kind:   IssueMissingRequiredField,
			Detail: "totalAmount",
			// A receipt with neither a total nor any items is unusable
			Critical: len(r.Items) == 0,
		})
		if totalRaw != "" {
			r.Issues = append(r.Issues, Issue{Kind: IssueInvalidCurrencyFormat, Detail: totalRaw})
		}
	}

	if len(r.Items) == 0 {
		r.Issues = append(r.Issues, Issue{Kind: IssueNoItemsFound, Critical: true})
	}

	if len(r.Items) > 0 && r.TotalAmount != nil && r.TotalAmount.IsPositive() {
		sum := decimal.Zero
		for _, item := range r.Items {
			sum = sum.Add(item.TotalPrice)
		}
		tolerance := decimal.NewFromFloat(p.cfg.SumMismatchTolerance)
		allowed := r.TotalAmount.Mul(tolerance)
		if sum.Sub(*r.TotalAmount).Abs().GreaterThan(allowed) {
			r.Issues = append(r.Issues, Issue{Kind: IssueValidationFailed, Detail: "itemSum"})
		}
	}

	if r.StoreName != "" {
		if _, known := p.table.matchRetailer(r.StoreName); !known {
			r.Issues = append(r.Issues, Issue{Kind: IssueUnknownStore, Detail: r.StoreName})
		}
	}

	r.Confidence = p.score(r.Issues, len(r.Items), ocrConfidence)
}

// score derives the final confidence from the OCR engine's reported
// confidence, the collected issues and the item yield
func (p *Parser) score(issues []Issue, itemCount int, ocrConfidence float64) float64 {
	confidence := ocrConfidence
	for _, issue := range issues {
		if issue.Critical {
			confidence -= criticalIssuePenalty
		} else {
			confidence -= nonCriticalIssuePenalty
		}
	}
	if itemCount >= 1 {
		confidence += anyItemsBonus
	}
	if itemCount >= manyItemsThreshold {
		confidence += manyItemsBonus
	}

	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}
	return confidence
}
