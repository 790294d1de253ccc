package utils

import (
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers whether an exchange trades on a given date.
type TradingCalendar struct {
	calendar *calendar.Calendar
	loc      *time.Location
}

// NewTradingCalendar loads the calendar for an ISO 10383 MIC (xnys for the NYSE).
// Unknown MICs fall back to a Monday to Friday week in the given timezone.
func NewTradingCalendar(mic string, fallbackLoc *time.Location) *TradingCalendar {
	if fallbackLoc == nil {
		fallbackLoc = time.UTC
	}
	if mic == "" {
		mic = "xnys"
	}
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		return &TradingCalendar{loc: fallbackLoc}
	}
	loc := cal.Loc
	if loc == nil {
		loc = fallbackLoc
	}
	return &TradingCalendar{calendar: cal, loc: loc}
}

// IsTradingDay reports whether the calendar date of d is a session day.
// Only the year, month and day of d are used.
func (tc *TradingCalendar) IsTradingDay(d time.Time) bool {
	y, m, day := d.Date()
	local := time.Date(y, m, day, 12, 0, 0, 0, tc.loc)
	if tc.calendar == nil {
		wd := local.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.calendar.IsBusinessDay(local)
}

// Location is the exchange timezone.
func (tc *TradingCalendar) Location() *time.Location {
	return tc.loc
}
