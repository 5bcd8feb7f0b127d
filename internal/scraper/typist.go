package scraper

import (
	"context"

	"sjsage522/propertydealworker/helpers"
	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

// Typist types values into form controls the way a person would
type Typist struct {
	locator *Locator
	pacing  Pacing
	log     *logger.Logger
}

// NewTypist creates a typist
func NewTypist(locator *Locator, pacing Pacing, log *logger.Logger) *Typist {
	return &Typist{locator: locator, pacing: pacing, log: log}
}

// SetValue focuses the target, clears it with select-all + delete and types
// text one key at a time. Keystrokes are not retried; any failure comes back
// as a FormFillError naming the target.
func (t *Typist) SetValue(ctx context.Context, page browser.Page, target Target, text string) error {
	el, ok := t.locator.Locate(ctx, page, target)
	if !ok {
		return errors.NewFormFill(target.Name, "control not found", ctx.Err())
	}

	if err := el.Click(); err != nil {
		return errors.NewFormFill(target.Name, "failed to focus control", err)
	}

	kb := page.Keyboard()
	if err := kb.Press("Control+a"); err != nil {
		return errors.NewFormFill(target.Name, "failed to select existing content", err)
	}
	if err := helpers.Sleep(ctx, t.pacing.Clear); err != nil {
		return errors.NewFormFill(target.Name, "interrupted while clearing", err)
	}
	if err := kb.Press("Delete"); err != nil {
		return errors.NewFormFill(target.Name, "failed to clear existing content", err)
	}
	if err := helpers.Sleep(ctx, t.pacing.Clear); err != nil {
		return errors.NewFormFill(target.Name, "interrupted while clearing", err)
	}

	if err := kb.Type(text, t.pacing.Keystroke); err != nil {
		return errors.NewFormFill(target.Name, "failed to type value", err)
	}
	if err := helpers.Sleep(ctx, t.pacing.TypeSettle); err != nil {
		return errors.NewFormFill(target.Name, "interrupted after typing", err)
	}

	t.log.Debug().Str("field", target.Name).Str("value", text).Msg("Field set")
	return nil
}
