// Package scraper drives the portal's date-filtered search and extracts the
// resulting transaction rows.
package scraper

import (
	"context"
	"time"

	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

// Config configures a Scraper
type Config struct {
	URL  string
	City string
	// Timeout bounds one whole invocation; zero means no bound
	Timeout time.Duration
	Session browser.Options
	Pacing  Pacing
}

// Scraper runs one portal search per Scrape call, each in its own browser
// session.
type Scraper struct {
	cfg       Config
	launcher  browser.Launcher
	filler    *DateFormFiller
	search    *SearchTrigger
	extractor *Extractor
	log       *logger.Logger
	now       func() time.Time
}

// New creates a scraper. rows selects how result rows are read.
func New(cfg Config, launcher browser.Launcher, rows RowSource, log *logger.Logger) *Scraper {
	if log == nil {
		log = logger.ForScraper()
	}
	if rows == nil {
		rows = NewDOMRows()
	}

	locator := NewLocator(cfg.Pacing.Probe, log)
	typist := NewTypist(locator, cfg.Pacing, log)

	return &Scraper{
		cfg:       cfg,
		launcher:  launcher,
		filler:    NewDateFormFiller(typist, cfg.City, cfg.Pacing, log),
		search:    NewSearchTrigger(locator, cfg.Pacing, log),
		extractor: NewExtractor(rows, log),
		log:       log,
		now:       time.Now,
	}
}

// Scrape starts a session, searches the last two days and extracts the
// results. The session is torn down on every return path. A search button
// that cannot be found is not an error: extraction still runs and normally
// yields empty sequences.
func (s *Scraper) Scrape(ctx context.Context) (Result, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := s.now()
	s.log.Info().Str("url", s.cfg.URL).Msg("Starting scrape")

	session := browser.NewSession(s.launcher, s.cfg.Session, s.log)
	defer session.Teardown()

	if err := session.Start(ctx); err != nil {
		return s.fail("browser_init", err)
	}
	if err := session.Navigate(ctx, s.cfg.URL); err != nil {
		return s.fail("navigate", err)
	}
	page := session.Page()

	window := NewDateWindow(s.now())
	if err := s.filler.Fill(ctx, page, window); err != nil {
		return s.fail("form_fill", err)
	}

	if err := s.search.Trigger(ctx, page); err != nil {
		switch errors.OutcomeOf(err) {
		case errors.OutcomeWarnContinue:
			s.log.Warn().Err(err).Msg("Search not triggered, extracting whatever is rendered")
		default:
			return s.fail("search", err)
		}
	}

	res, err := s.extractor.Extract(ctx, page)
	if err != nil {
		return s.fail("extract", err)
	}

	s.log.Info().
		Int("count", res.Len()).
		Str("window", window.String()).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Scrape finished")
	return res, nil
}

func (s *Scraper) fail(phase string, err error) (Result, error) {
	s.log.Error().Err(err).Str("phase", phase).Msg("Error during scraping")
	return Result{}, err
}
