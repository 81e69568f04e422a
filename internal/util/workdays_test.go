package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDays(t *testing.T) {
	// 2025-06-02 is a Monday.
	require.Equal(t, 5, BusinessDays(day(2025, 6, 2), day(2025, 6, 6)))
	// Full week including the weekend still counts 5.
	require.Equal(t, 5, BusinessDays(day(2025, 6, 2), day(2025, 6, 8)))
	// Saturday to Sunday contains no business days.
	require.Equal(t, 0, BusinessDays(day(2025, 6, 7), day(2025, 6, 8)))
	// Single business day, inclusive bounds.
	require.Equal(t, 1, BusinessDays(day(2025, 6, 4), day(2025, 6, 4)))
	// Reversed range.
	require.Equal(t, 0, BusinessDays(day(2025, 6, 6), day(2025, 6, 2)))
	// Two full weeks spanning both weekends.
	require.Equal(t, 10, BusinessDays(day(2025, 6, 2), day(2025, 6, 13)))
}

func TestRangesOverlap(t *testing.T) {
	a1, a2 := day(2025, 6, 2), day(2025, 6, 6)

	require.True(t, RangesOverlap(a1, a2, day(2025, 6, 4), day(2025, 6, 10)))
	// Touching endpoints overlap.
	require.True(t, RangesOverlap(a1, a2, day(2025, 6, 6), day(2025, 6, 10)))
	// One range fully inside the other.
	require.True(t, RangesOverlap(a1, a2, day(2025, 6, 3), day(2025, 6, 4)))
	// Disjoint.
	require.False(t, RangesOverlap(a1, a2, day(2025, 6, 9), day(2025, 6, 10)))
	require.False(t, RangesOverlap(day(2025, 6, 9), day(2025, 6, 10), a1, a2))
}

func TestWorkedHours(t *testing.T) {
	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	worked, overtime := WorkedHours(in, in.Add(8*time.Hour))
	require.Equal(t, 8.0, worked)
	require.Equal(t, 0.0, overtime)

	worked, overtime = WorkedHours(in, in.Add(9*time.Hour+30*time.Minute))
	require.Equal(t, 9.5, worked)
	require.Equal(t, 1.5, overtime)

	worked, overtime = WorkedHours(in, in.Add(4*time.Hour+15*time.Minute))
	require.Equal(t, 4.25, worked)
	require.Equal(t, 0.0, overtime)

	// Clock-out before clock-in yields zero.
	worked, overtime = WorkedHours(in, in.Add(-time.Hour))
	require.Equal(t, 0.0, worked)
	require.Equal(t, 0.0, overtime)
}
