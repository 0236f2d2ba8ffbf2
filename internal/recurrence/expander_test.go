package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestExpandNone(t *testing.T) {
	start := date(2024, 1, 1, 9)
	end := date(2024, 1, 1, 10)

	for _, typ := range []Type{"", TypeNone} {
		windows, err := Expand(start, end, Settings{Type: typ})
		require.NoError(t, err)
		require.Len(t, windows, 1)
		assert.Equal(t, start, windows[0].Start)
		assert.Equal(t, end, windows[0].End)
	}
}

func TestExpandValidation(t *testing.T) {
	start := date(2024, 1, 1, 9)
	end := date(2024, 1, 1, 10)

	_, err := Expand(end, start, Settings{Type: TypeDaily})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Expand(start, start, Settings{Type: TypeDaily})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Expand(start, end, Settings{Type: TypeDaily, Interval: -1})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = Expand(start, end, Settings{Type: TypeWeekly, Interval: 1})
	assert.ErrorIs(t, err, ErrWeekdaysRequired)

	_, err = Expand(start, end, Settings{Type: TypeWeekly, WeekDays: []time.Weekday{-1}})
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = Expand(start, end, Settings{Type: TypeWeekly, WeekDays: []time.Weekday{7}})
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = Expand(start, end, Settings{Type: "fortnightly"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestExpandWeekly(t *testing.T) {
	// Monday 2024-01-01, 09:00-10:00, repeating Mon+Wed until Jan 15.
	start := date(2024, 1, 1, 9)
	end := date(2024, 1, 1, 10)
	until := date(2024, 1, 15, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeWeekly,
		Interval:   1,
		WeekDays:   []time.Weekday{time.Monday, time.Wednesday},
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)

	wantStarts := []time.Time{
		date(2024, 1, 1, 9),  // Mon
		date(2024, 1, 3, 9),  // Wed
		date(2024, 1, 8, 9),  // Mon
		date(2024, 1, 10, 9), // Wed
		date(2024, 1, 15, 9), // Mon, end date is inclusive
	}
	require.Len(t, windows, len(wantStarts))
	for i, want := range wantStarts {
		assert.Equal(t, want, windows[i].Start, "occurrence %d", i)
		assert.Equal(t, want.Add(time.Hour), windows[i].End, "occurrence %d", i)
	}
}

func TestExpandWeeklyIntervalAnchorsAtBaseStart(t *testing.T) {
	// Base is a Wednesday. Every second week counted from the base date:
	// the Friday two days later belongs to the same 7-day span, so it is
	// included; the next span starts 14 days after the base.
	start := date(2024, 1, 3, 9) // Wed
	end := date(2024, 1, 3, 10)
	until := date(2024, 1, 19, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeWeekly,
		Interval:   2,
		WeekDays:   []time.Weekday{time.Wednesday, time.Friday},
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)

	wantStarts := []time.Time{
		date(2024, 1, 3, 9),  // Wed, base
		date(2024, 1, 5, 9),  // Fri, same span
		date(2024, 1, 17, 9), // Wed, +2 weeks
		date(2024, 1, 19, 9), // Fri
	}
	require.Len(t, windows, len(wantStarts))
	for i, want := range wantStarts {
		assert.Equal(t, want, windows[i].Start, "occurrence %d", i)
	}
}

func TestExpandDaily(t *testing.T) {
	start := date(2024, 3, 1, 14)
	end := date(2024, 3, 1, 16)
	until := date(2024, 3, 7, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeDaily,
		Interval:   2,
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)

	wantDays := []int{1, 3, 5, 7}
	require.Len(t, windows, len(wantDays))
	for i, d := range wantDays {
		assert.Equal(t, date(2024, 3, d, 14), windows[i].Start)
		assert.Equal(t, 2*time.Hour, windows[i].End.Sub(windows[i].Start))
	}
}

func TestExpandMonthly(t *testing.T) {
	start := date(2024, 1, 15, 9)
	end := date(2024, 1, 15, 12)
	until := date(2024, 4, 30, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeMonthly,
		Interval:   1,
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)
	require.Len(t, windows, 4)
	for i, m := range []time.Month{time.January, time.February, time.March, time.April} {
		assert.Equal(t, date(2024, m, 15, 9), windows[i].Start)
	}
}

func TestExpandMonthlySkipsShortMonths(t *testing.T) {
	// The 31st does not exist in every month; those months produce no
	// occurrence rather than a shifted one.
	start := date(2024, 1, 31, 9)
	end := date(2024, 1, 31, 10)
	until := date(2024, 5, 31, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeMonthly,
		Interval:   1,
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)

	wantStarts := []time.Time{
		date(2024, 1, 31, 9),
		date(2024, 3, 31, 9),
		date(2024, 5, 31, 9),
	}
	require.Len(t, windows, len(wantStarts))
	for i, want := range wantStarts {
		assert.Equal(t, want, windows[i].Start)
	}
}

func TestExpandYearly(t *testing.T) {
	start := date(2024, 2, 1, 9)
	end := date(2024, 2, 1, 10)
	until := date(2026, 12, 31, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeYearly,
		Interval:   1,
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, date(2024, 2, 1, 9), windows[0].Start)
	assert.Equal(t, date(2025, 2, 1, 9), windows[1].Start)
	assert.Equal(t, date(2026, 2, 1, 9), windows[2].Start)
}

func TestExpandDefaultHorizonAndCap(t *testing.T) {
	start := date(2024, 1, 1, 9)
	end := date(2024, 1, 1, 10)

	t.Run("daily without end date hits the occurrence cap", func(t *testing.T) {
		windows, err := Expand(start, end, Settings{Type: TypeDaily, Interval: 1})
		require.NoError(t, err)
		assert.Len(t, windows, MaxOccurrences)
	})

	t.Run("monthly without end date stops at the one-year horizon", func(t *testing.T) {
		windows, err := Expand(start, end, Settings{Type: TypeMonthly, Interval: 1})
		require.NoError(t, err)
		assert.Len(t, windows, 12) // Jan through Dec 2024; Jan 2025 is past the horizon
	})
}

func TestExpandPreservesDuration(t *testing.T) {
	start := date(2024, 1, 1, 22)
	end := date(2024, 1, 2, 2) // crosses midnight
	until := date(2024, 1, 3, 0)

	windows, err := Expand(start, end, Settings{
		Type:       TypeDaily,
		Interval:   1,
		EndDate:    &until,
		HasEndDate: true,
	})
	require.NoError(t, err)
	require.Len(t, windows, 3)
	for _, w := range windows {
		assert.Equal(t, 4*time.Hour, w.End.Sub(w.Start))
	}
}
