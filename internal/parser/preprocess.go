package parser

import (
	"strings"

	"github.com/bonscan/bonscan/internal/ocr"
)

// pline is a preprocessed input line. source indexes the original input
// sequence so extracted values can be traced back to their bounding box.
type pline struct {
	text       string
	confidence float64
	source     int
}

// preprocess trims the raw OCR lines and drops blank ones, preserving
// order. An all-blank input yields an empty sequence, which downstream
// extractors treat as "nothing extractable".
func preprocess(lines []ocr.Line) []pline {
	out := make([]pline, 0, len(lines))
	for i, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		out = append(out, pline{
			text:       text,
			confidence: l.Confidence,
			source:     i,
		})
	}
	return out
}

// meanConfidence averages the per-line OCR confidences; zero lines mean
// zero confidence
func meanConfidence(lines []pline) float64 {
	if len(lines) == 0 {
		return 0
	}
	var sum float64
	for _, l := range lines {
		sum += l.confidence
	}
	return sum / float64(len(lines))
}
