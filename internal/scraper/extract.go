package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

// minCells is the cell count a row needs; column 0 is not used.
const minCells = 6

// Column positions in the results table
const (
	colDistrict      = 1
	colPrice         = 2
	colArea          = 3
	colPricePerMeter = 4
	colDate          = 5
)

// Category thresholds on price per meter
const (
	mediumThreshold = 1000
	highThreshold   = 2000
)

// CoerceNumber keeps only the decimal digits of text and parses them as a
// float. Separators, decimal points and signs are dropped, so "1,234" and
// "12.34" both give 1234. Arabic-Indic digits count as digits. Returns nil
// when no digit is left.
func CoerceNumber(text string) *float64 {
	var b strings.Builder
	for _, r := range text {
		if d, ok := asciiDigit(r); ok {
			b.WriteRune(d)
		}
	}
	if b.Len() == 0 {
		return nil
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	return &v
}

func asciiDigit(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r, true
	case r >= '٠' && r <= '٩': // arabic-indic
		return '0' + (r - '٠'), true
	case r >= '۰' && r <= '۹': // extended arabic-indic
		return '0' + (r - '۰'), true
	}
	return 0, false
}

// Categorize bands a price per meter: below 1000 is Low, below 2000 Medium,
// anything else High. A nil price gives a nil category.
func Categorize(pricePerMeter *float64) *Category {
	if pricePerMeter == nil {
		return nil
	}

	var c Category
	switch p := *pricePerMeter; {
	case p < mediumThreshold:
		c = CategoryLow
	case p < highThreshold:
		c = CategoryMedium
	default:
		c = CategoryHigh
	}
	return &c
}

// Extractor turns result rows into records
type Extractor struct {
	source RowSource
	log    *logger.Logger
}

// NewExtractor creates an extractor reading from source
func NewExtractor(source RowSource, log *logger.Logger) *Extractor {
	return &Extractor{source: source, log: log}
}

// Extract reads all rows from page and builds the two sequences
func (e *Extractor) Extract(ctx context.Context, page browser.Page) (Result, error) {
	e.log.Info().Msg("Extracting property data")

	rows, err := e.source.Rows(ctx, page)
	if err != nil {
		return Result{}, err
	}
	return e.Build(rows), nil
}

// Build maps rows to records in a single pass. Rows that cannot be mapped
// are logged and skipped; the plain and categorized sequences always hold
// the same rows in the same order.
func (e *Extractor) Build(rows []Row) Result {
	res := Result{
		Plain:       make([]PropertyRecord, 0, len(rows)),
		Categorized: make([]CategorizedPropertyRecord, 0, len(rows)),
	}

	for _, row := range rows {
		record, err := parseRow(row)
		if err != nil {
			e.log.Warn().
				Err(err).
				Str("outcome", errors.OutcomeOf(err).String()).
				Msg("Skipping row")
			continue
		}

		res.Plain = append(res.Plain, record)
		res.Categorized = append(res.Categorized, record.WithCategory())
	}

	e.log.Info().
		Int("rows", len(rows)).
		Int("records", res.Len()).
		Msg("Successfully extracted properties")
	return res
}

func parseRow(row Row) (PropertyRecord, error) {
	if row.Err != nil {
		return PropertyRecord{}, errors.NewRowSkip(row.Index, "failed to read cells", row.Err)
	}
	if len(row.Cells) < minCells {
		return PropertyRecord{}, errors.NewRowSkip(row.Index,
			fmt.Sprintf("expected at least %d cells, got %d", minCells, len(row.Cells)), nil)
	}

	return PropertyRecord{
		District:      strings.TrimSpace(row.Cells[colDistrict]),
		Price:         CoerceNumber(row.Cells[colPrice]),
		Area:          CoerceNumber(row.Cells[colArea]),
		PricePerMeter: CoerceNumber(row.Cells[colPricePerMeter]),
		Date:          strings.TrimSpace(row.Cells[colDate]),
	}, nil
}
