package activity

import (
	"testing"
)

func TestSummarizeTasks(t *testing.T) {
	t.Parallel()

	tasks := []Task{{ID: 1, Name: "write"}, {ID: 2, Name: "review"}, {ID: 3, Name: "idle"}}
	events := []Event{
		start(1, 1, 0), stop(2, 1, 10),
		start(3, 2, 0), stop(4, 2, 30),
		start(5, 3, 500), stop(6, 3, 600),
	}

	got := SummarizeTasks(events, tasks, window(0, 100), Options{})
	want := []TaskActiveTimeResult{
		{TaskID: 2, TaskName: "review", ActiveTimeMs: 30},
		{TaskID: 1, TaskName: "write", ActiveTimeMs: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d results, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Result %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	if invalid := SummarizeTasks(events, tasks, window(100, 0), Options{}); invalid == nil || len(invalid) != 0 {
		t.Errorf("Expected empty non-nil result for invalid window, got %+v", invalid)
	}
}

func TestIsActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []Event
		want   bool
	}{
		{name: "no events", events: nil, want: false},
		{name: "latest is start", events: []Event{start(1, 1, 0), stop(2, 1, 5), start(3, 1, 10)}, want: true},
		{name: "latest is stop", events: []Event{start(1, 1, 0), stop(2, 1, 5)}, want: false},
		{name: "latest by id not by position", events: []Event{start(7, 1, 10), stop(3, 1, 5)}, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsActive(tt.events); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterByTags(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		{ID: 1, TagIDs: []int64{1, 2}},
		{ID: 2, TagIDs: []int64{2}},
		{ID: 3, TagIDs: nil},
		{ID: 4, TagIDs: []int64{2, 1, 3}},
	}

	tests := []struct {
		name     string
		selected []int64
		wantIDs  []int64
	}{
		{name: "no selection keeps all", selected: nil, wantIDs: []int64{1, 2, 3, 4}},
		{name: "single tag", selected: []int64{2}, wantIDs: []int64{1, 2, 4}},
		{name: "all selected tags required", selected: []int64{1, 2}, wantIDs: []int64{1, 4}},
		{name: "no match", selected: []int64{5}, wantIDs: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterByTags(tasks, tt.selected)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d tasks, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("Position %d: expected task %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}
