package scraper

import (
	"context"
	"fmt"

	"sjsage522/propertydealworker/helpers"
	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

// SearchTrigger clicks the search button and waits for results
type SearchTrigger struct {
	locator *Locator
	pacing  Pacing
	log     *logger.Logger
}

// NewSearchTrigger creates a search trigger
func NewSearchTrigger(locator *Locator, pacing Pacing, log *logger.Logger) *SearchTrigger {
	return &SearchTrigger{locator: locator, pacing: pacing, log: log}
}

// Trigger runs the search. A missing or unclickable button comes back as a
// SearchTrigger warning (OutcomeWarnContinue); only a cancelled context is
// fatal.
func (s *SearchTrigger) Trigger(ctx context.Context, page browser.Page) error {
	s.log.Info().Msg("Clicking search button")

	el, ok := s.locator.Locate(ctx, page, SearchButton)
	if !ok {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return errors.NewSearchTrigger("could not find search button", nil)
	}

	if err := el.ScrollIntoView(); err != nil {
		return errors.NewSearchTrigger("failed to scroll to search button", err)
	}
	if err := helpers.Sleep(ctx, s.pacing.Scroll); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := el.Click(); err != nil {
		return errors.NewSearchTrigger("failed to click search button", err)
	}

	s.log.Info().Msg("Search button clicked, waiting for results")
	if err := helpers.Sleep(ctx, s.pacing.ResultsSettle); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}
