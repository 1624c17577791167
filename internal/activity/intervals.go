package activity

import (
	"cmp"
	"slices"
	"time"
)

// SortEvents returns a copy of events ordered by timestamp, equal timestamps by event ID.
func SortEvents(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

// BuildIntervals reconstructs the activity intervals of a single task.
//
// A START while an interval is already open replaces the open start, and a STOP
// with nothing open is ignored. A START left open at the end produces an
// interval with a nil End.
func BuildIntervals(events []Event) []Interval {
	var intervals []Interval
	var open *time.Time

	for _, ev := range SortEvents(events) {
		switch ev.Type {
		case Start:
			at := ev.At
			open = &at
		case Stop:
			if open == nil {
				continue
			}
			end := ev.At
			intervals = append(intervals, Interval{Start: *open, End: &end})
			open = nil
		}
	}

	if open != nil {
		intervals = append(intervals, Interval{Start: *open})
	}
	return intervals
}

// GroupByTask splits events by task ID, preserving their relative order
func GroupByTask(events []Event) map[int64][]Event {
	grouped := make(map[int64][]Event)
	for _, ev := range events {
		grouped[ev.TaskID] = append(grouped[ev.TaskID], ev)
	}
	return grouped
}

// clip intersects iv with w. ok is false when the overlap has zero or negative width.
func clip(iv Interval, w Window, opts Options) (start, end time.Time, ok bool) {
	end = opts.openEnd(w)
	if iv.End != nil {
		end = *iv.End
	}

	start = iv.Start
	if start.Before(w.Start) {
		start = w.Start
	}
	if end.After(w.End) {
		end = w.End
	}
	return start, end, start.Before(end)
}

// MergeIntervals returns the minimal set of non-overlapping intervals covering
// the input. Touching intervals are joined. Ongoing intervals are ignored; clip
// them to a window first.
func MergeIntervals(intervals []Interval) []Interval {
	closed := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.End != nil {
			closed = append(closed, iv)
		}
	}
	if len(closed) == 0 {
		return nil
	}

	slices.SortStableFunc(closed, func(a, b Interval) int {
		return a.Start.Compare(b.Start)
	})

	merged := make([]Interval, 0, len(closed))
	curStart, curEnd := closed[0].Start, *closed[0].End
	for _, next := range closed[1:] {
		if !next.Start.After(curEnd) {
			if next.End.After(curEnd) {
				curEnd = *next.End
			}
			continue
		}
		merged = append(merged, closedInterval(curStart, curEnd))
		curStart, curEnd = next.Start, *next.End
	}
	return append(merged, closedInterval(curStart, curEnd))
}

func closedInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: &end}
}

// totalMs sums the widths of closed intervals in milliseconds
func totalMs(intervals []Interval) int64 {
	var total time.Duration
	for _, iv := range intervals {
		if iv.End != nil {
			total += iv.End.Sub(iv.Start)
		}
	}
	return total.Milliseconds()
}
