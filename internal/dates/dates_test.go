package dates

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDaysDifferenceSameDay(t *testing.T) {
	tuesday := date(2025, time.August, 19)
	if tuesday.Weekday() != time.Tuesday {
		t.Fatalf("fixture is not a Tuesday: %v", tuesday.Weekday())
	}
	if got := BusinessDaysDifference(tuesday, tuesday); got != 0 {
		t.Fatalf("same-day weekday: expected 0 got %d", got)
	}

	saturday := date(2025, time.August, 23)
	if saturday.Weekday() != time.Saturday {
		t.Fatalf("fixture is not a Saturday: %v", saturday.Weekday())
	}
	if got := BusinessDaysDifference(saturday, saturday); got != -1 {
		t.Fatalf("same-day weekend: expected -1 got %d", got)
	}
}

func TestBusinessDaysDifferenceAcrossWeek(t *testing.T) {
	// Monday 2025-08-18 through Friday 2025-08-22: five weekdays counted, minus one.
	monday := date(2025, time.August, 18)
	friday := date(2025, time.August, 22)
	if got := BusinessDaysDifference(monday, friday); got != 4 {
		t.Fatalf("mon..fri: expected 4 got %d", got)
	}

	// Monday through next Monday spans one weekend.
	nextMonday := date(2025, time.August, 25)
	if got := BusinessDaysDifference(monday, nextMonday); got != 5 {
		t.Fatalf("mon..mon: expected 5 got %d", got)
	}
}

func TestBusinessDaysDifferenceStartOnWeekend(t *testing.T) {
	// Saturday to the following Wednesday: Mon, Tue, Wed counted, minus one.
	saturday := date(2025, time.August, 23)
	wednesday := date(2025, time.August, 27)
	if got := BusinessDaysDifference(saturday, wednesday); got != 2 {
		t.Fatalf("sat..wed: expected 2 got %d", got)
	}
}

func TestBusinessDaysDifferenceEndBeforeStart(t *testing.T) {
	// Empty range counts nothing and still subtracts one.
	monday := date(2025, time.August, 18)
	sunday := date(2025, time.August, 17)
	if got := BusinessDaysDifference(monday, sunday); got != -1 {
		t.Fatalf("inverted range: expected -1 got %d", got)
	}
}
