// Package recurrence expands simple repeat rules into concrete booking
// windows. Expansion is finite and eager: it is bounded by the rule's end
// date (or one year past the base start) and hard-capped at MaxOccurrences.
package recurrence

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrences caps expansion so a malformed rule cannot run away.
const MaxOccurrences = 365

// defaultHorizon bounds rules without an explicit end date.
const defaultHorizon = time.Hour * 24 * 365

var (
	ErrInvalidType      = errors.New("recurrence: unknown recurrence type")
	ErrInvalidInterval  = errors.New("recurrence: interval must be at least 1")
	ErrWeekdaysRequired = errors.New("recurrence: weekly recurrence requires at least one weekday")
	ErrInvalidWeekday   = errors.New("recurrence: weekday must be between Sunday and Saturday")
	ErrInvalidWindow    = errors.New("recurrence: base window must have positive duration")
)

// Type enumerates the supported repeat patterns.
type Type string

const (
	TypeNone    Type = "none"
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeYearly  Type = "yearly"
)

// Settings describes a repeat rule as captured from the booking form.
// WeekDays is consulted only for weekly rules. EndDate is a calendar date,
// honored end-of-day inclusive, and only when HasEndDate is set.
type Settings struct {
	Type       Type
	Interval   int
	WeekDays   []time.Weekday
	EndDate    *time.Time
	HasEndDate bool
}

// Window is one concrete occurrence produced by expansion.
type Window struct {
	Start time.Time
	End   time.Time
}

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Expand turns the base window plus settings into the ordered list of
// occurrence windows. Every occurrence keeps the base window's duration.
// Weekly rules walk 7-day spans anchored at the base start: occurrences fall
// on the selected weekdays, and interval N skips N-1 spans between walks.
func Expand(baseStart, baseEnd time.Time, s Settings) ([]Window, error) {
	if !baseEnd.After(baseStart) {
		return nil, ErrInvalidWindow
	}

	if s.Type == "" || s.Type == TypeNone {
		return []Window{{Start: baseStart, End: baseEnd}}, nil
	}

	interval := s.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 1 {
		return nil, ErrInvalidInterval
	}

	duration := baseEnd.Sub(baseStart)

	until := baseStart.Add(defaultHorizon)
	if s.HasEndDate && s.EndDate != nil {
		// Inclusive end-of-day in the base window's zone.
		d := *s.EndDate
		until = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, baseStart.Location())
	}

	opt := rrule.ROption{
		Interval: interval,
		Dtstart:  baseStart,
		Until:    until,
	}

	switch s.Type {
	case TypeDaily:
		opt.Freq = rrule.DAILY
	case TypeWeekly:
		if len(s.WeekDays) == 0 {
			return nil, ErrWeekdaysRequired
		}
		opt.Freq = rrule.WEEKLY
		for _, wd := range s.WeekDays {
			if wd < time.Sunday || wd > time.Saturday {
				return nil, ErrInvalidWeekday
			}
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
		}
		// Anchor week counting at the base start's weekday so "every Nth
		// week" means Nth 7-day span from the base date, not calendar weeks.
		opt.Wkst = rruleWeekdays[int(baseStart.Weekday())]
	case TypeMonthly:
		opt.Freq = rrule.MONTHLY
	case TypeYearly:
		opt.Freq = rrule.YEARLY
	default:
		return nil, ErrInvalidType
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, 8)
	next := rule.Iterator()
	for len(windows) < MaxOccurrences {
		start, ok := next()
		if !ok {
			break
		}
		windows = append(windows, Window{Start: start, End: start.Add(duration)})
	}

	return windows, nil
}
