package scraper

import "time"

// Pacing holds the settle delays between browser interactions. The portal
// re-renders asynchronously after each keystroke and gives no ready signal,
// so every step waits a fixed time before the next one touches the page.
type Pacing struct {
	// Probe bounds the visibility wait for each locator strategy
	Probe time.Duration
	// FormStart is waited before the first date field
	FormStart time.Duration
	// Clear is waited after select-all and after delete
	Clear time.Duration
	// Keystroke is the delay between typed characters
	Keystroke time.Duration
	// TypeSettle is waited after a value has been typed
	TypeSettle time.Duration
	// Autocomplete is waited for the city suggestions to appear
	Autocomplete time.Duration
	// Scroll is waited after scrolling the search button into view
	Scroll time.Duration
	// ResultsSettle is waited after clicking search
	ResultsSettle time.Duration
}

// DefaultPacing returns the delays the portal is known to tolerate
func DefaultPacing() Pacing {
	return Pacing{
		Probe:         2 * time.Second,
		FormStart:     2 * time.Second,
		Clear:         500 * time.Millisecond,
		Keystroke:     100 * time.Millisecond,
		TypeSettle:    time.Second,
		Autocomplete:  3 * time.Second,
		Scroll:        time.Second,
		ResultsSettle: 5 * time.Second,
	}
}
