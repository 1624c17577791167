package activity

import "time"

// ActiveTime returns the milliseconds of activity from intervals that fall inside w.
// An invalid window yields 0; use ActiveTimeStrict to get the error instead.
func ActiveTime(intervals []Interval, w Window, opts Options) int64 {
	total, err := ActiveTimeStrict(intervals, w, opts)
	if err != nil {
		return 0
	}
	return total
}

// ActiveTimeStrict is ActiveTime for callers that want window misuse reported.
// The returned error is an *InvalidWindowError.
func ActiveTimeStrict(intervals []Interval, w Window, opts Options) (int64, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}

	var total time.Duration
	for _, iv := range intervals {
		start, end, ok := clip(iv, w, opts)
		if !ok {
			continue
		}
		total += end.Sub(start)
	}
	return total.Milliseconds(), nil
}

// ActiveTimeFromEvents builds the intervals of one task's events and measures them against w
func ActiveTimeFromEvents(events []Event, w Window, opts Options) int64 {
	return ActiveTime(BuildIntervals(events), w, opts)
}
