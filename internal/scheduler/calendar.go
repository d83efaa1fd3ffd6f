package scheduler

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
	log "github.com/sirupsen/logrus"
)

// exchangeMIC maps a ticker suffix to its ISO 10383 market code. NSE and BSE
// share sessions and holidays; the library only ships the BSE calendar.
var exchangeMIC = map[string]string{
	".NS": "xbom",
	".BO": "xbom",
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".TO": "xtse",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

// TradingCalendar answers whether an exchange trades on a given day.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Timezone *time.Location
	closed   map[string]bool // fallback closures, "2006-01-02"
}

// CalendarFor returns the calendar of the symbol's exchange, NYSE for
// suffix-less symbols, or a Mon-Fri fallback when the library has none.
// Extra holidays are added on top of the library's own list.
func CalendarFor(symbol string, holidays ...time.Time) *TradingCalendar {
	mic := "xnys"
	if i := strings.LastIndex(symbol, "."); i >= 0 {
		if m, ok := exchangeMIC[strings.ToUpper(symbol[i:])]; ok {
			mic = m
		}
	}
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		log.Debugf("no trading calendar for %s (%s), using weekday fallback", symbol, mic)
		tc := &TradingCalendar{Timezone: time.UTC, closed: make(map[string]bool, len(holidays))}
		for _, h := range holidays {
			tc.closed[h.Format(time.DateOnly)] = true
		}
		return tc
	}
	for _, h := range holidays {
		cal.AddHolidays(configuredHoliday(h))
	}
	return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
}

// configuredHoliday turns a date into a one-off holiday of that year.
func configuredHoliday(date time.Time) *calendar.Holiday {
	h := calendar.NewYear.Copy("Configured holiday " + date.Format(time.DateOnly))
	h.Month = date.Month()
	h.Day = date.Day()
	h.OnYear = date.Year()
	return h
}

// IsTradingDay reports whether the exchange is open on date.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}
	if tc.Calendar == nil {
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday && !tc.closed[date.Format(time.DateOnly)]
	}
	return tc.Calendar.IsBusinessDay(date)
}
