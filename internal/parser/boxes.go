package parser

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/bonscan/bonscan/internal/ocr"
)

// boxDistanceThreshold is the maximum edit distance for a fuzzy box match
const boxDistanceThreshold = 3

// AssociateBox locates the bounding box of the input line best matching
// the given text, for UI highlighting. Exact containment wins over fuzzy
// matching; below the edit-distance threshold the closest line wins. A
// miss is not an error - a zero-area box is returned instead.
func AssociateBox(text string, lines []ocr.Line) ocr.Box {
	needle := strings.TrimSpace(text)
	if needle == "" {
		return ocr.Box{}
	}

	for _, l := range lines {
		if l.Box == nil {
			continue
		}
		if strings.Contains(strings.TrimSpace(l.Text), needle) {
			return *l.Box
		}
	}

	best := -1
	bestDist := boxDistanceThreshold
	for i, l := range lines {
		if l.Box == nil {
			continue
		}
		dist := levenshtein.ComputeDistance(needle, strings.TrimSpace(l.Text))
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	if best >= 0 {
		return *lines[best].Box
	}

	return ocr.Box{}
}

// ItemBox resolves a line item's bounding box, preferring its recorded
// source line over a text search
func ItemBox(item LineItem, lines []ocr.Line) ocr.Box {
	if item.SourceLine >= 0 && item.SourceLine < len(lines) {
		if b := lines[item.SourceLine].Box; b != nil {
			return *b
		}
	}
	return AssociateBox(item.RawText, lines)
}
