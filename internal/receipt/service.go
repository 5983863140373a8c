package receipt

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bonscan/bonscan/internal/ocr"
	"github.com/bonscan/bonscan/internal/parser"
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt operations
type Service struct {
	db          DB
	recognizer  ocr.Recognizer
	storage     Storage
	parser      *parser.Parser
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, recognizer ocr.Recognizer, storage Storage, p *parser.Parser) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		parser:      p,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer ocr.Recognizer, storage Storage, p *parser.Parser, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		parser:      p,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	filenameSpecials   = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameWhitespace = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length (phone cameras generate very long names)
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameSpecials.ReplaceAllString(base, "")
	base = filenameWhitespace.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// centsFromDecimal converts an optional decimal euro amount to cents
func centsFromDecimal(d *decimal.Decimal) *int64 {
	if d == nil {
		return nil
	}
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return &cents
}

// buildReceipt maps an engine result onto the persisted model
func buildReceipt(id string, parsed parser.ParsedReceipt, lines []ocr.Line, savedPath, contentType string, now time.Time) *Receipt {
	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, Item{
			RawText:         it.RawText,
			Name:            it.Name,
			Quantity:        it.Quantity,
			UnitPriceCents:  centsFromDecimal(it.UnitPrice),
			TotalPriceCents: it.TotalPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			Confidence:      it.Confidence,
			SourceLine:      it.SourceLine,
		})
	}

	var date time.Time
	if parsed.ReceiptDate != "" {
		if d, err := time.Parse("2006-01-02", parsed.ReceiptDate); err == nil {
			date = d
		}
	}

	return &Receipt{
		ID:            id,
		StoreName:     parsed.StoreName,
		Date:          date,
		Time:          parsed.ReceiptTime,
		TotalCents:    centsFromDecimal(parsed.TotalAmount),
		SubtotalCents: centsFromDecimal(parsed.Subtotal),
		TaxCents:      centsFromDecimal(parsed.TaxAmount),
		Items:         items,
		Confidence:    parsed.Confidence,
		Issues:        parsed.Issues,
		Lines:         lines,
		Filename:      savedPath,
		ContentType:   contentType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ProcessReceipt uploads a receipt, runs OCR and extraction, and saves the
// result. Extraction problems do not fail the upload: a degraded receipt
// is stored with its issues and a low confidence so the caller can ask the
// user to rescan or correct it.
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	lines, err := s.recognizer.RecognizeLines(data, contentType)
	if err != nil {
		slog.Error("Failed to recognize receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved file since recognition failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("recognizing receipt: %w", err)
	}

	parsed := s.parser.Parse(lines)
	receipt := buildReceipt(id, parsed, lines, savedPath, contentType, now)

	if receipt.NeedsReview() {
		slog.Warn("Receipt extraction needs review",
			"id", id,
			"confidence", parsed.Confidence,
			"issues", len(parsed.Issues),
		)
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	return receipt, nil
}

// ReparseReceipt re-runs the extraction engine over a receipt's stored OCR
// lines. Stored lines make historical scans reprocessable after a pattern
// table change without re-running OCR.
func (s *Service) ReparseReceipt(id string) (*Receipt, error) {
	existing, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt for reparse: %w", err)
	}
	if len(existing.Lines) == 0 {
		return nil, fmt.Errorf("receipt %s has no stored OCR lines", id)
	}

	parsed := s.parser.Parse(existing.Lines)
	updated := buildReceipt(existing.ID, parsed, existing.Lines, existing.Filename, existing.ContentType, s.timeSource.Now())
	updated.CreatedAt = existing.CreatedAt

	if err := s.db.SaveReceipt(updated); err != nil {
		return nil, fmt.Errorf("saving reparsed receipt: %w", err)
	}
	return updated, nil
}

// MarkReviewed records that a user has confirmed or corrected a receipt
func (s *Service) MarkReviewed(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}

	receipt.Reviewed = true
	receipt.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveReceipt(receipt); err != nil {
		return nil, fmt.Errorf("saving receipt: %w", err)
	}
	return receipt, nil
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its file
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if err := s.storage.Delete(receipt.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", receipt.Filename, "error", err)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the file data for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, receipt.ContentType, nil
}
