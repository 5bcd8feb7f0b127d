package scraper

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

func TestNewDateWindow(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	tests := []struct {
		name string
		now  time.Time
		from string
		to   string
	}{
		{"mid month", time.Date(2024, 6, 15, 10, 0, 0, 0, riyadh), "2024-06-13", "2024-06-15"},
		{"leap february", time.Date(2024, 3, 1, 0, 30, 0, 0, riyadh), "2024-02-28", "2024-03-01"},
		{"year boundary", time.Date(2025, 1, 1, 23, 59, 0, 0, riyadh), "2024-12-30", "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewDateWindow(tt.now)
			assert.Equal(t, tt.from, w.From.Format(time.DateOnly))
			assert.Equal(t, tt.to, w.To.Format(time.DateOnly))
			assert.Equal(t, riyadh, w.From.Location())
		})
	}
}

func TestDateWindowString(t *testing.T) {
	w := NewDateWindow(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-06-13..2024-06-15", w.String())
}

func TestFillOrder(t *testing.T) {
	page := newPortalPage()
	filler := NewDateFormFiller(newTestTypist(), "", Pacing{}, logger.Nop())
	window := NewDateWindow(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

	require.NoError(t, filler.Fill(context.Background(), page, window))

	var want []string
	want = append(want, fieldEvents(FromYearField, "2024")...)
	want = append(want, fieldEvents(FromMonthField, "6")...)
	want = append(want, fieldEvents(FromDayField, "13")...)
	want = append(want, fieldEvents(ToYearField, "2024")...)
	want = append(want, cityEvents(DefaultCity)...)
	want = append(want, fieldEvents(ToMonthField, "6")...)
	want = append(want, fieldEvents(ToDayField, "15")...)
	assert.Equal(t, want, page.Events())
}

func TestFillCustomCity(t *testing.T) {
	page := newPortalPage()
	filler := NewDateFormFiller(newTestTypist(), "مدينة جدة", Pacing{}, logger.Nop())

	require.NoError(t, filler.Fill(context.Background(), page, NewDateWindow(time.Now())))
	assert.Contains(t, page.Events(), "type:مدينة جدة")
}

func TestFillAbortsOnMissingField(t *testing.T) {
	page := newPortalPage()
	page.Add(primary(ToYearField)).Visible = false

	filler := NewDateFormFiller(newTestTypist(), "", Pacing{}, logger.Nop())
	err := filler.Fill(context.Background(), page, NewDateWindow(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeFormFill))
	assert.Contains(t, err.Error(), "to-year")

	// the three From fields were typed, nothing after
	var want []string
	want = append(want, fieldEvents(FromYearField, "2024")...)
	want = append(want, fieldEvents(FromMonthField, "6")...)
	want = append(want, fieldEvents(FromDayField, "13")...)
	assert.Equal(t, want, page.Events())
}

func TestFillCityFailure(t *testing.T) {
	page := newPortalPage()
	page.PressErr["Enter"] = stderrors.New("keyboard gone")

	filler := NewDateFormFiller(newTestTypist(), "", Pacing{}, logger.Nop())
	err := filler.Fill(context.Background(), page, NewDateWindow(time.Now()))

	assert.True(t, errors.Is(err, errors.ErrorTypeFormFill))
	assert.Contains(t, err.Error(), "city")
	assert.NotContains(t, page.Events(), "click:"+primary(ToMonthField))
}

func TestFillCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	filler := NewDateFormFiller(newTestTypist(), "", Pacing{}, logger.Nop())
	err := filler.Fill(ctx, newPortalPage(), NewDateWindow(time.Now()))
	assert.True(t, errors.Is(err, errors.ErrorTypeFormFill))
}
