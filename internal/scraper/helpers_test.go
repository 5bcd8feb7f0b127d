package scraper

import (
	"sjsage522/propertydealworker/internal/browser/browsertest"
	"sjsage522/propertydealworker/logger"
)

var dateFields = []Target{FromYearField, FromMonthField, FromDayField, ToYearField, ToMonthField, ToDayField}

func primary(t Target) string {
	return string(t.Strategies[0])
}

// newPortalPage renders every control on its primary selector
func newPortalPage() *browsertest.Page {
	page := browsertest.NewPage()
	for _, f := range dateFields {
		page.Add(primary(f))
	}
	page.Add(primary(SearchButton))
	return page
}

func fieldEvents(t Target, value string) []string {
	return []string{
		"click:" + primary(t),
		"press:Control+a",
		"press:Delete",
		"type:" + value,
	}
}

func cityEvents(city string) []string {
	return []string{"press:Tab", "type:" + city, "press:Enter"}
}

func newTestTypist() *Typist {
	return NewTypist(NewLocator(0, logger.Nop()), Pacing{}, logger.Nop())
}

func f64(v float64) *float64 {
	return &v
}

func cat(c Category) *Category {
	return &c
}
