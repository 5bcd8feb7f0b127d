package scraper

import (
	"context"
	"strconv"

	"sjsage522/propertydealworker/helpers"
	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

// DefaultCity is the city typed into the autocomplete field
const DefaultCity = "مدينة الرياض"

// DateFormFiller fills the From/To date inputs and the city autocomplete
type DateFormFiller struct {
	typist *Typist
	city   string
	pacing Pacing
	log    *logger.Logger
}

// NewDateFormFiller creates a filler for the given city
func NewDateFormFiller(typist *Typist, city string, pacing Pacing, log *logger.Logger) *DateFormFiller {
	if city == "" {
		city = DefaultCity
	}
	return &DateFormFiller{typist: typist, city: city, pacing: pacing, log: log}
}

type fillStep struct {
	name string
	run  func(ctx context.Context, page browser.Page) error
}

// Fill types the window into the form. The order follows the form's tab
// sequence: the city field is reached by tabbing out of to-year, so it is
// filled right after it. The first failing step aborts the fill.
func (f *DateFormFiller) Fill(ctx context.Context, page browser.Page, w DateWindow) error {
	f.log.Info().Str("window", w.String()).Msg("Filling date fields")

	if err := helpers.Sleep(ctx, f.pacing.FormStart); err != nil {
		return errors.NewFormFill(FromYearField.Name, "interrupted before filling", err)
	}

	for _, step := range f.steps(w) {
		if err := step.run(ctx, page); err != nil {
			f.log.Error().Err(err).Str("field", step.name).Msg("Error filling date fields")
			return err
		}
		f.log.Info().Str("field", step.name).Msg("Filled")
	}

	f.log.Info().Msg("Date fields filled successfully")
	return nil
}

func (f *DateFormFiller) steps(w DateWindow) []fillStep {
	return []fillStep{
		f.field(FromYearField, w.From.Year()),
		f.field(FromMonthField, int(w.From.Month())),
		f.field(FromDayField, w.From.Day()),
		f.field(ToYearField, w.To.Year()),
		{name: "city", run: f.fillCity},
		f.field(ToMonthField, int(w.To.Month())),
		f.field(ToDayField, w.To.Day()),
	}
}

func (f *DateFormFiller) field(target Target, value int) fillStep {
	return fillStep{
		name: target.Name,
		run: func(ctx context.Context, page browser.Page) error {
			return f.typist.SetValue(ctx, page, target, strconv.Itoa(value))
		},
	}
}

// fillCity tabs into the city autocomplete, types the city and accepts the
// first suggestion.
func (f *DateFormFiller) fillCity(ctx context.Context, page browser.Page) error {
	kb := page.Keyboard()
	if err := kb.Press("Tab"); err != nil {
		return errors.NewFormFill("city", "failed to tab into city field", err)
	}
	if err := kb.Type(f.city, f.pacing.Keystroke); err != nil {
		return errors.NewFormFill("city", "failed to type city", err)
	}
	if err := helpers.Sleep(ctx, f.pacing.Autocomplete); err != nil {
		return errors.NewFormFill("city", "interrupted waiting for suggestions", err)
	}
	if err := kb.Press("Enter"); err != nil {
		return errors.NewFormFill("city", "failed to accept suggestion", err)
	}
	if err := helpers.Sleep(ctx, f.pacing.TypeSettle); err != nil {
		return errors.NewFormFill("city", "interrupted after accepting suggestion", err)
	}
	return nil
}
