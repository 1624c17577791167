package activity

import (
	"cmp"
	"slices"
)

// SummarizeTasks returns the active time of every task that was active inside w,
// largest first, ties by task ID. An invalid window yields an empty result.
func SummarizeTasks(events []Event, tasks []Task, w Window, opts Options) []TaskActiveTimeResult {
	results := []TaskActiveTimeResult{}
	if w.Validate() != nil {
		return results
	}

	byTask := GroupByTask(events)
	for _, t := range tasks {
		ms := ActiveTimeFromEvents(byTask[t.ID], w, opts)
		if ms <= 0 {
			continue
		}
		results = append(results, TaskActiveTimeResult{TaskID: t.ID, TaskName: t.Name, ActiveTimeMs: ms})
	}

	slices.SortFunc(results, func(a, b TaskActiveTimeResult) int {
		if c := cmp.Compare(b.ActiveTimeMs, a.ActiveTimeMs); c != 0 {
			return c
		}
		return cmp.Compare(a.TaskID, b.TaskID)
	})
	return results
}

// IsActive reports whether a task is running: its most recent event, by event ID, is a START.
func IsActive(events []Event) bool {
	if len(events) == 0 {
		return false
	}
	latest := events[0]
	for _, ev := range events[1:] {
		if ev.ID > latest.ID {
			latest = ev
		}
	}
	return latest.Type == Start
}

// FilterByTags keeps the tasks that carry every selected tag. No selection keeps all tasks.
func FilterByTags(tasks []Task, selected []int64) []Task {
	if len(selected) == 0 {
		return slices.Clone(tasks)
	}

	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		matches := true
		for _, tagID := range selected {
			if !t.HasTag(tagID) {
				matches = false
				break
			}
		}
		if matches {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
