package scraper

import (
	"context"
	"time"

	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/logger"
)

// Strategy is one way of finding a control, as a playwright selector
// (css, "xpath=..." or "text=...").
type Strategy string

// Target is a logical UI control with its location strategies in priority
// order.
type Target struct {
	Name       string
	Strategies []Strategy
}

// Locator resolves targets to visible elements
type Locator struct {
	probe time.Duration
	log   *logger.Logger
}

// NewLocator creates a locator that probes each strategy for up to probe
func NewLocator(probe time.Duration, log *logger.Logger) *Locator {
	return &Locator{probe: probe, log: log}
}

// Locate returns the element of the first strategy that is visible within
// the probe window. It reports false when no strategy matches; absence is
// left for the caller to judge.
func (l *Locator) Locate(ctx context.Context, page browser.Page, target Target) (browser.Element, bool) {
	for i, strategy := range target.Strategies {
		if ctx.Err() != nil {
			return nil, false
		}

		el := page.Query(string(strategy))
		if err := el.WaitVisible(l.probe); err != nil {
			l.log.Debug().
				Str("target", target.Name).
				Int("strategy", i).
				Err(err).
				Msg("Strategy did not match")
			continue
		}

		if i > 0 {
			l.log.Info().
				Str("target", target.Name).
				Str("selector", string(strategy)).
				Msg("Located via fallback strategy")
		}
		return el, true
	}
	return nil, false
}
