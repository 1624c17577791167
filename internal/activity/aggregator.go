package activity

import (
	"cmp"
	"fmt"
	"slices"
)

// SummarizeTags computes, for every tag, the active time of all tasks carrying
// it inside w, counting time during which several of those tasks ran only once.
//
// Tags without activity are omitted. The result is ordered by active time,
// largest first, ties by tag ID. An invalid window yields an empty result.
func SummarizeTags(events []Event, tasks []Task, tags []Tag, w Window, opts Options) []TagActivitySummary {
	summary := []TagActivitySummary{}
	if w.Validate() != nil {
		return summary
	}

	tagsByTask := make(map[int64][]int64, len(tasks))
	for _, t := range tasks {
		tagsByTask[t.ID] = t.TagIDs
	}

	timeline := make(map[int64][]Interval)
	for taskID, taskEvents := range GroupByTask(events) {
		tagIDs := tagsByTask[taskID]
		if len(tagIDs) == 0 {
			continue
		}
		for _, iv := range BuildIntervals(taskEvents) {
			start, end, ok := clip(iv, w, opts)
			if !ok {
				continue
			}
			for _, tagID := range tagIDs {
				timeline[tagID] = append(timeline[tagID], closedInterval(start, end))
			}
		}
	}

	names := make(map[int64]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	for tagID, intervals := range timeline {
		total := totalMs(MergeIntervals(intervals))
		if total <= 0 {
			continue
		}
		name, ok := names[tagID]
		if !ok {
			name = fmt.Sprintf("Unknown Tag (%d)", tagID)
		}
		summary = append(summary, TagActivitySummary{TagID: tagID, TagName: name, ActiveTimeMs: total})
	}

	slices.SortFunc(summary, func(a, b TagActivitySummary) int {
		if c := cmp.Compare(b.ActiveTimeMs, a.ActiveTimeMs); c != 0 {
			return c
		}
		return cmp.Compare(a.TagID, b.TagID)
	})
	return summary
}
