package activity

import (
	"slices"
	"time"
)

// OverlappingIntervals returns the intervals that touch w at least partially,
// ordered by start. Ongoing intervals extend indefinitely.
func OverlappingIntervals(intervals []Interval, w Window) []Interval {
	overlapping := []Interval{}
	if w.Validate() != nil {
		return overlapping
	}

	for _, iv := range intervals {
		if iv.Start.After(w.End) {
			continue
		}
		if iv.End != nil && iv.End.Before(w.Start) {
			continue
		}
		overlapping = append(overlapping, iv)
	}

	slices.SortStableFunc(overlapping, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})
	return overlapping
}

// HideOngoingEnd reports whether the end of an ongoing interval should be left
// blank when listing it for w: the window covers now, so the activity is still running.
func HideOngoingEnd(w Window, now time.Time) bool {
	return w.Contains(now)
}
