package activity

import (
	"fmt"
	"time"
)

// localLayouts are accepted by ParseTime in addition to RFC3339 and are read in
// the caller's location
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// StartOfDay returns local midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseTime accepts RFC3339, YYYY-MM-DDTHH:MM[:SS] or YYYY-MM-DD. Values without
// an offset are read in loc.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", value)
}

// ParseDay reads a YYYY-MM-DD calendar day as midnight in loc
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

// ParseWindow resolves optional start/end values. An empty start means local
// midnight of now, an empty end means now. The window is not validated.
func ParseWindow(start, end string, loc *time.Location, now time.Time) (Window, error) {
	w := Window{Start: StartOfDay(now, loc), End: now}
	if start != "" {
		t, err := ParseTime(start, loc)
		if err != nil {
			return Window{}, fmt.Errorf("start: %w", err)
		}
		w.Start = t
	}
	if end != "" {
		t, err := ParseTime(end, loc)
		if err != nil {
			return Window{}, fmt.Errorf("end: %w", err)
		}
		w.End = t
	}
	return w, nil
}

// ParseDayRange resolves optional from/to days. The range defaults to
// yesterday through today.
func ParseDayRange(from, to string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	last := StartOfDay(now, loc)
	first := last.AddDate(0, 0, -1)
	var err error
	if from != "" {
		if first, err = ParseDay(from, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
	}
	if to != "" {
		if last, err = ParseDay(to, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
	}
	return first, last, nil
}
