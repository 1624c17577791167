// Package activity turns task start/stop events into active-time figures.
//
// Everything in this package is a pure function of its arguments: no I/O, no
// shared state, safe to call from concurrent requests.
package activity

import (
	"fmt"
	"time"
)

// EventType distinguishes start and stop events
type EventType int

const (
	// Start marks a task becoming active
	Start EventType = 0
	// Stop marks a task becoming inactive
	Stop EventType = 1
)

// String returns the lowercase name of the event type
func (t EventType) String() string {
	switch t {
	case Start:
		return "start"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Event is a single start or stop timestamp recorded for a task
type Event struct {
	ID     int64
	TaskID int64
	At     time.Time
	Type   EventType
}

// Interval is a period of continuous activity. End is nil while the task is still running.
type Interval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end"`
}

// Ongoing reports whether the interval has no recorded end
func (iv Interval) Ongoing() bool {
	return iv.End == nil
}

// Window is the observation period [Start, End) over which activity is measured
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the window, or zero for an invalid window
func (w Window) Duration() time.Duration {
	if !w.Start.Before(w.End) {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Validate returns an *InvalidWindowError unless Start is strictly before End
func (w Window) Validate() error {
	if w.Start.Before(w.End) {
		return nil
	}
	return &InvalidWindowError{Start: w.Start, End: w.End}
}

// Contains reports whether t lies in [Start, End)
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Task is the tag-membership projection of a tracked task
type Task struct {
	ID     int64
	Name   string
	TagIDs []int64
}

// HasTag reports whether the task carries tagID
func (t Task) HasTag(tagID int64) bool {
	for _, id := range t.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Tag labels aggregated results
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Options tunes how ongoing intervals are clipped.
//
// With a zero Now an interval that has no end is treated as active through
// the window end. With Now set it is active through min(Now, window end), so a
// window reaching into the future does not count time that has not happened yet.
type Options struct {
	Now time.Time
}

// openEnd returns the instant an ongoing interval is considered to end at for w
func (o Options) openEnd(w Window) time.Time {
	if o.Now.IsZero() || o.Now.After(w.End) {
		return w.End
	}
	return o.Now
}

// TagActivitySummary is the merged active time of all tasks carrying a tag
type TagActivitySummary struct {
	TagID        int64  `json:"tag_id"`
	TagName      string `json:"tag_name"`
	ActiveTimeMs int64  `json:"active_time_ms"`
}

// TaskActiveTimeResult is the active time of a single task
type TaskActiveTimeResult struct {
	TaskID       int64  `json:"task_id"`
	TaskName     string `json:"task_name"`
	ActiveTimeMs int64  `json:"active_time_ms"`
}

// DayActivity is the number of active minutes on one calendar day
type DayActivity struct {
	Date    string `json:"date"`
	Minutes int64  `json:"minutes"`
}
