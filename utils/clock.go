package utils

import "time"

// BusinessZone is the fixed civil-time reference for daily distribution
// periods and the weekly leaderboard reset. No daylight saving.
var BusinessZone = time.FixedZone("UTC+5", 5*60*60)

// PeriodDate returns the civil date of t in BusinessZone, used as the
// distribution-period key (one ROI credit per entry per period).
func PeriodDate(t time.Time) string {
	return t.In(BusinessZone).Format("2006-01-02")
}

// SamePeriod reports whether a and b fall on the same civil day in BusinessZone.
func SamePeriod(a, b time.Time) bool {
	return PeriodDate(a) == PeriodDate(b)
}

// PeriodStart returns the start of t's civil day in BusinessZone.
func PeriodStart(t time.Time) time.Time {
	lt := t.In(BusinessZone)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, BusinessZone)
}
