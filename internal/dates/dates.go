// Package dates holds the calendar arithmetic the reminder rules are
// calibrated against.
package dates

import "time"

// BusinessDaysDifference steps one calendar day at a time from start up to and
// including end, counts the days that are not Saturday or Sunday, and returns
// the count minus one (the start day is not counted).
//
// Same-day input therefore yields 0 on a weekday and -1 on a weekend. Every
// rule threshold (>7, >3, >2) is calibrated against this exact behavior, so do
// not change the counting without re-calibrating the thresholds.
func BusinessDaysDifference(start, end time.Time) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count - 1
}
