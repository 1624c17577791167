package validation

import (
	"testing"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  write report  ", "write report"},
		{"drops control characters", "a\x00b\x07c", "abc"},
		{"keeps newline and tab", "line1\n\tline2", "line1\n\tline2"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateTagList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"1", false},
		{"1,3,7", false},
		{" 1 , 2 ", false},
		{"1,,2", true},
		{"a", true},
		{"0", true},
		{"-4", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := ValidateTagList(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTagList(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStructs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{"valid report request", models.ReportRequest{Kind: models.ReportKindTagSummary, Start: "2025-03-01", End: "2025-03-02"}, false},
		{"unknown report kind", models.ReportRequest{Kind: "weekly", Start: "2025-03-01", End: "2025-03-02"}, true},
		{"missing report start", models.ReportRequest{Kind: models.ReportKindTaskSummary, End: "2025-03-02"}, true},
		{"valid task", models.TaskInput{Name: "Write docs", Tags: "1,2"}, false},
		{"task without name", models.TaskInput{Tags: "1"}, true},
		{"task with bad tags", models.TaskInput{Name: "Write docs", Tags: "1,x"}, true},
		{"valid tag", models.TagInput{Name: "work"}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate.Struct(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate.Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
