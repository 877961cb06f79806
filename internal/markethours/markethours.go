// Package markethours answers whether the Indian cash market is in session.
// The dashboard only uses it for display: the mock feed jitters prices
// around the clock regardless of session state.
package markethours

import "time"

// IST is the Indian Standard Time location (UTC+5:30).
var IST = time.FixedZone("IST", 5*3600+30*60)

// NSE session bounds in IST.
const (
	openHour    = 9
	openMinute  = 15
	closeHour   = 15
	closeMinute = 30
)

// nseHolidays holds exchange holidays as IST dates, keyed "2006-01-02".
var nseHolidays = map[string]bool{
	"2026-01-26": true, // Republic Day
	"2026-02-17": true, // Mahashivratri
	"2026-03-14": true, // Holi
	"2026-04-10": true, // Good Friday
	"2026-04-14": true, // Dr. Ambedkar Jayanti
	"2026-05-01": true, // Maharashtra Day
	"2026-08-15": true, // Independence Day
	"2026-10-02": true, // Mahatma Gandhi Jayanti
	"2026-10-20": true, // Dussehra
	"2026-11-05": true, // Diwali
	"2026-11-19": true, // Guru Nanak Jayanti
	"2026-12-25": true, // Christmas
}

// Now returns the current time; a variable so tests can pin it.
var Now = time.Now

// IsHoliday reports whether the date (in IST) is an NSE holiday.
func IsHoliday(t time.Time) bool {
	return nseHolidays[t.In(IST).Format("2006-01-02")]
}

// IsTradingDay reports whether t is a weekday and not a holiday.
func IsTradingDay(t time.Time) bool {
	wd := t.In(IST).Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !IsHoliday(t)
}

// IsMarketOpen reports whether t falls within NSE trading hours
// (9:15 AM – 3:30 PM IST, Mon–Fri, excluding holidays).
func IsMarketOpen(t time.Time) bool {
	if !IsTradingDay(t) {
		return false
	}
	ist := t.In(IST)
	hm := ist.Hour()*60 + ist.Minute()
	return hm >= openHour*60+openMinute && hm < closeHour*60+closeMinute
}

// StatusString returns "open" or "closed" for display surfaces.
func StatusString(t time.Time) string {
	if IsMarketOpen(t) {
		return "open"
	}
	return "closed"
}
