package scraper

import (
	"context"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/pkg/errors"
)

// Row is the cell texts of one rendered result row
type Row struct {
	Index int
	Cells []string
	// Err is set when the row's cells could not be read
	Err error
}

// RowSource enumerates the result rows on a page
type RowSource interface {
	Rows(ctx context.Context, page browser.Page) ([]Row, error)
}

// DOMRows reads rows from the live page, one locator call per cell
type DOMRows struct {
	RowSelector  string
	CellSelector string
}

// NewDOMRows reads the portal results table from the live page
func NewDOMRows() DOMRows {
	return DOMRows{RowSelector: ResultRowSelector, CellSelector: ResultCellSelector}
}

// Rows implements RowSource
func (d DOMRows) Rows(ctx context.Context, page browser.Page) ([]Row, error) {
	elements, err := page.QueryAll(d.RowSelector)
	if err != nil {
		return nil, errors.NewExtraction("failed to enumerate result rows", err)
	}

	rows := make([]Row, 0, len(elements))
	for i, el := range elements {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewExtraction("interrupted while reading rows", err)
		}
		rows = append(rows, d.readRow(i, el))
	}
	return rows, nil
}

func (d DOMRows) readRow(index int, el browser.Element) Row {
	cells, err := el.Children(d.CellSelector)
	if err != nil {
		return Row{Index: index, Err: err}
	}

	texts := make([]string, 0, len(cells))
	for _, cell := range cells {
		text, err := cell.InnerText()
		if err != nil {
			return Row{Index: index, Err: err}
		}
		texts = append(texts, text)
	}
	return Row{Index: index, Cells: texts}
}

// SnapshotRows parses the serialized page once with goquery instead of
// reading each cell through the browser.
type SnapshotRows struct {
	RowSelector  string
	CellSelector string
}

// NewSnapshotRows reads the portal results table from a page snapshot
func NewSnapshotRows() SnapshotRows {
	return SnapshotRows{RowSelector: ResultRowSelector, CellSelector: ResultCellSelector}
}

// Rows implements RowSource
func (s SnapshotRows) Rows(ctx context.Context, page browser.Page) ([]Row, error) {
	html, err := page.Content()
	if err != nil {
		return nil, errors.NewExtraction("failed to read page content", err)
	}
	return ParseRows(strings.NewReader(html), s.RowSelector, s.CellSelector)
}

// ParseRows extracts rows from an HTML document
func ParseRows(r io.Reader, rowSelector, cellSelector string) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewExtraction("failed to parse page content", err)
	}

	var rows []Row
	doc.Find(rowSelector).Each(func(i int, s *goquery.Selection) {
		cells := make([]string, 0, s.Find(cellSelector).Length())
		s.Find(cellSelector).Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})
		rows = append(rows, Row{Index: i, Cells: cells})
	})
	return rows, nil
}
