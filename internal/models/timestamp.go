package models

import (
	"fmt"
	"time"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/activity"
)

// ServerTimeLayout is the wall-clock layout the tracker backend stores timestamps in
const ServerTimeLayout = "2006-01-02 15:04:05.000"

var serverTimeLayouts = []string{
	ServerTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseServerTime parses a backend timestamp as wall-clock time in loc.
// RFC3339 values carrying their own offset are accepted as well.
func ParseServerTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range serverTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// FormatServerTime renders t as wall-clock time in loc using ServerTimeLayout
func FormatServerTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(ServerTimeLayout)
}

// ToEvent converts a backend timestamp into an activity event
func (ts Timestamp) ToEvent(loc *time.Location) (activity.Event, error) {
	at, err := ParseServerTime(ts.Timestamp, loc)
	if err != nil {
		return activity.Event{}, fmt.Errorf("timestamp %d: %w", ts.ID, err)
	}
	return activity.Event{ID: ts.ID, TaskID: ts.Task, At: at, Type: ts.Type}, nil
}

// ToEvents converts backend timestamps. Rows whose timestamp does not parse
// are left out of events and reported in skipped, one error per row.
func ToEvents(timestamps []Timestamp, loc *time.Location) (events []activity.Event, skipped []error) {
	events = make([]activity.Event, 0, len(timestamps))
	for _, ts := range timestamps {
		ev, err := ts.ToEvent(loc)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		events = append(events, ev)
	}
	return events, skipped
}
