package ocr

// Box is a bounding box in normalized [0,1] image coordinates
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns the area of the box in normalized units
func (b Box) Area() float64 {
	return b.Width * b.Height
}

// Line is a single recognized text line, emitted top-to-bottom
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // [0,1]
	Box        *Box    `json:"box,omitempty"`
}

// Recognizer defines the interface for OCR backends
type Recognizer interface {
	// RecognizeLines reads an image or PDF and returns its text lines in
	// visual order (top to bottom) with per-line confidences
	RecognizeLines(imageData []byte, contentType string) ([]Line, error)
	// Close closes the recognizer and releases resources
	Close() error
}
