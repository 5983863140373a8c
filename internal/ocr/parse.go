package ocr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawLine mirrors the JSON shape the vision models are prompted to emit
type rawLine struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
	Box        *Box     `json:"box"`
}

// parseLinesJSON parses the JSON array of text lines returned by a vision model
func parseLinesJSON(text string) ([]Line, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON array boundaries - look for first [ and last ]
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	text = text[startIdx : endIdx+1]

	var raw []rawLine
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}

		// Models occasionally omit the confidence field; treat a missing
		// value as fully confident rather than discarding the line
		confidence := 1.0
		if r.Confidence != nil {
			confidence = *r.Confidence
		}
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}

		// Drop boxes with out-of-range or non-positive dimensions
		box := r.Box
		if box != nil && !validBox(*box) {
			box = nil
		}

		lines = append(lines, Line{
			Text:       r.Text,
			Confidence: confidence,
			Box:        box,
		})
	}

	return lines, nil
}

// validBox reports whether a box lies within normalized image coordinates
func validBox(b Box) bool {
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}
	if b.X < 0 || b.Y < 0 {
		return false
	}
	return b.X+b.Width <= 1.0 && b.Y+b.Height <= 1.0
}
