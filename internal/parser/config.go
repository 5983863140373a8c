package parser

// DateFormat pairs a capture pattern with the Go time layout used to
// normalize what it captures
type DateFormat struct {
	Pattern string // must contain one capture group holding the date
	Layout  string
}

// ItemPattern describes one recognizer for item lines. Group indices
// refer to capture groups of Pattern; 0 means the group is not present.
type ItemPattern struct {
	Pattern         string
	QuantityGroup   int
	NameGroup       int
	UnitPriceGroup  int
	TotalPriceGroup int
}

// Config parameterizes the pattern table for a locale and retailer set.
// A Config is plain data; it is compiled once by NewPatternTable and
// never consulted again during parsing.
type Config struct {
	// KnownRetailers are matched case-insensitively against the store
	// window and against the extracted store name during validation
	KnownRetailers []string

	// StorePatterns are retailer-shaped regexes (legal-entity suffixes
	// etc.) tried after the known-retailer list; the first capture group,
	// if any, becomes the store name
	StorePatterns []string

	// DateFormats are tried in order; the first match in line order wins
	DateFormats []DateFormat

	// TimePattern captures a HH:MM[:SS] clock time
	TimePattern string

	TotalKeywords    []string
	SubtotalKeywords []string
	TaxKeywords      []string

	// SkipKeywords mark boilerplate lines that never yield items
	SkipKeywords []string

	// SkipPatterns match whole noise lines (separators, bare dates)
	SkipPatterns []string

	// ItemPatterns are tried in order, most specific first
	ItemPatterns []ItemPattern

	// SumMismatchTolerance is the allowed relative difference between the
	// item sum and the printed total before validation flags the receipt
	SumMismatchTolerance float64

	// HeaderLineCount/FooterLineCount are the positional windows dropped
	// before item extraction on long receipts; short receipts fall back
	// to a 1/2 window
	HeaderLineCount int
	FooterLineCount int
}

// amountFragment matches German/Austrian formatted amounts: optional
// dot-separated thousands, comma decimal separator, two decimal digits.
// A bare ",99" is a valid amount (0.99).
const amountFragment = `(?:\d{1,3}(?:\.\d{3})+|\d+)?,\d{2}`

// DefaultConfig returns the German/Austrian defaults
func DefaultConfig() Config {
	return Config{
		KnownRetailers: []string{
			"REWE", "EDEKA", "ALDI", "LIDL", "PENNY", "NETTO", "KAUFLAND",
			"BILLA", "SPAR", "HOFER", "ROSSMANN", "MUELLER", "MÜLLER",
			"TEGUT", "NORMA", "DM",
		},
		StorePatterns: []string{
			// Business name followed by a legal-entity suffix
			`^([A-ZÄÖÜ][\wÄÖÜäöüß&.\-' ]{1,40}?)\s+(?:GmbH|AG|KG|OHG|GbR|e\.?\s?K\.?|& Co\.?(?:\s*KG)?)\b`,
			// Markt/Filiale headers ("EDEKA Markt Nord", "Filiale 1234 Wien")
			`^([A-ZÄÖÜ][\wÄÖÜäöüß&.\-' ]{1,40}?)\s+(?:Markt|Filiale)\b`,
		},
		DateFormats: []DateFormat{
			{Pattern: `\b(\d{2}\.\d{2}\.\d{4})\b`, Layout: "02.01.2006"},
			{Pattern: `\b(\d{2}-\d{2}-\d{4})\b`, Layout: "02-01-2006"},
			{Pattern: `\b(\d{4}-\d{2}-\d{2})\b`, Layout: "2006-01-02"},
			{Pattern: `\b(\d{2}\.\d{2}\.\d{2})\b`, Layout: "02.01.06"},
			{Pattern: `\b(\d{2}/\d{2}/\d{4})\b`, Layout: "02/01/2006"},
		},
		TimePattern: `\b(\d{1,2}:\d{2}(?::\d{2})?)\b`,
		TotalKeywords: []string{
			"SUMME", "GESAMT", "TOTAL", "BETRAG", "ZU ZAHLEN",
		},
		SubtotalKeywords: []string{
			"ZWISCHENSUMME", "NETTO", "SUBTOTAL",
		},
		TaxKeywords: []string{
			"MWST", "MWST.", "STEUER", "UST", "UST.", "VAT", "TAX",
		},
		SkipKeywords: []string{
			"SUMME", "GESAMT", "TOTAL", "BETRAG", "ZU ZAHLEN",
			"ZWISCHENSUMME", "NETTO", "BRUTTO", "SUBTOTAL",
			"MWST", "STEUER", "UST", "VAT",
			"BAR", "KARTE", "GIROCARD", "EC-CASH", "KREDITKARTE",
			"RÜCKGELD", "RUECKGELD", "GEGEBEN",
			"DATUM", "UHRZEIT", "KASSE", "KASSIERER", "BEDIENUNG", "BON-NR",
			"BELEG", "TSE-", "TRACE-NR", "TERMINAL",
			"VIELEN DANK", "DANKE", "AUF WIEDERSEHEN", "WILLKOMMEN",
			"TEL.", "TELEFON", "WWW.", "UID", "STEUERNR",
		},
		SkipPatterns: []string{
			// Separator rules
			`^[-=*_~ ]+$`,
			// Lines that are nothing but a date and/or time
			`^\s*\d{1,2}[./-]\d{1,2}[./-]\d{2,4}(?:\s+\d{1,2}:\d{2}(?::\d{2})?)?\s*$`,
			`^\s*\d{1,2}:\d{2}(?::\d{2})?\s*$`,
			// Bare long digit runs (bon numbers, EAN codes)
			`^\s*[\d\s/]{8,}\s*$`,
		},
		ItemPatterns: []ItemPattern{
			// qty x unit price, name, line total: "2 x 1,49 H-Milch 2,98 A"
			{
				Pattern:         `^(\d{1,2})\s*[xX*]\s*(` + amountFragment + `)\s+(.+?)\s+(` + amountFragment + `)\s*€?\s*[ABC*]?\s*$`,
				QuantityGroup:   1,
				UnitPriceGroup:  2,
				NameGroup:       3,
				TotalPriceGroup: 4,
			},
			// qty, name, line total: "2x Bio Joghurt 1,98"
			{
				Pattern:         `^(\d{1,2})\s*[xX*]\s+(.+?)\s+(` + amountFragment + `)\s*€?\s*[ABC*]?\s*$`,
				QuantityGroup:   1,
				NameGroup:       2,
				TotalPriceGroup: 3,
			},
			// name, price: "Bio Vollkornbrot 2,99 A"
			{
				Pattern:         `^(.+?)\s+(` + amountFragment + `)\s*€?\s*[ABC*]?\s*$`,
				NameGroup:       1,
				TotalPriceGroup: 2,
			},
		},
		SumMismatchTolerance: 0.20,
		HeaderLineCount:      3,
		FooterLineCount:      5,
	}
}
