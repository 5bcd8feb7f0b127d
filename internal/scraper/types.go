package scraper

import "time"

// Category is the coarse price band of a property
type Category string

const (
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// PropertyRecord is one transaction row from the portal results table.
// Numeric fields are nil when the cell text held no digits.
type PropertyRecord struct {
	District      string   `json:"district"`
	Price         *float64 `json:"price"`
	Area          *float64 `json:"area"`
	PricePerMeter *float64 `json:"price_per_meter"`
	Date          string   `json:"date"`
}

// CategorizedPropertyRecord is a PropertyRecord plus its price band.
// Category is nil when the price per meter is absent.
type CategorizedPropertyRecord struct {
	PropertyRecord
	Category *Category `json:"category"`
}

// WithCategory derives the categorized twin of r
func (r PropertyRecord) WithCategory() CategorizedPropertyRecord {
	return CategorizedPropertyRecord{
		PropertyRecord: r,
		Category:       Categorize(r.PricePerMeter),
	}
}

// Result holds the two index-aligned sequences produced by one scrape
type Result struct {
	Plain       []PropertyRecord
	Categorized []CategorizedPropertyRecord
}

// Len returns the number of records
func (r Result) Len() int {
	return len(r.Plain)
}

// DateWindow is the calendar range submitted to the search form
type DateWindow struct {
	From time.Time
	To   time.Time
}

// NewDateWindow returns the window ending on now's calendar day and starting
// two days earlier, in now's location.
func NewDateWindow(now time.Time) DateWindow {
	return DateWindow{
		From: now.AddDate(0, 0, -2),
		To:   now,
	}
}

// String formats the window as YYYY-MM-DD..YYYY-MM-DD
func (w DateWindow) String() string {
	return w.From.Format(time.DateOnly) + ".." + w.To.Format(time.DateOnly)
}
