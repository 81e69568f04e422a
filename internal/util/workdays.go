package util

import (
	"math"
	"time"
)

const regularShiftHours = 8.0

// BusinessDays counts Mon-Fri days between start and end inclusive.
// Returns 0 when end is before start.
func BusinessDays(start, end time.Time) int {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// RangesOverlap reports whether [aStart,aEnd] and [bStart,bEnd] share at
// least one day. Touching endpoints count as overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !truncateDay(aStart).After(truncateDay(bEnd)) &&
		!truncateDay(bStart).After(truncateDay(aEnd))
}

// WorkedHours computes the worked and overtime hours of a shift, both
// rounded to two decimals. Overtime is everything past the regular 8 hours.
func WorkedHours(clockIn, clockOut time.Time) (worked, overtime float64) {
	if !clockOut.After(clockIn) {
		return 0, 0
	}
	worked = round2(clockOut.Sub(clockIn).Hours())
	if worked > regularShiftHours {
		overtime = round2(worked - regularShiftHours)
	}
	return worked, overtime
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
