package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/ChikinaValeria/TimeTrackerApp/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("report_kind", validateReportKind); err != nil {
		panic(fmt.Sprintf("failed to register report_kind validator: %v", err))
	}
	if err := Validate.RegisterValidation("tag_list", validateTagList); err != nil {
		panic(fmt.Sprintf("failed to register tag_list validator: %v", err))
	}
}

func validateReportKind(fl validator.FieldLevel) bool {
	return ValidateReportKind(fl.Field().String()) == nil
}

// validateTagList accepts "" or a comma-separated list of positive integer IDs
func validateTagList(fl validator.FieldLevel) bool {
	return ValidateTagList(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateReportKind validates a ReportKind string value
func ValidateReportKind(value string) error {
	switch models.ReportKind(value) {
	case models.ReportKindTagSummary, models.ReportKindTaskSummary:
		return nil
	default:
		return fmt.Errorf("invalid kind: %s (must be 'tag_summary' or 'task_summary')", value)
	}
}

// ValidateTagList validates a comma-separated tag ID list such as "1,3,7"
func ValidateTagList(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	for _, part := range strings.Split(value, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid tag id: %q", strings.TrimSpace(part))
		}
	}
	return nil
}
