package activity

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidWindow is matched by every *InvalidWindowError
	ErrInvalidWindow = errors.New("invalid observation window")
	// ErrStartInFuture is returned when a day range starts after today
	ErrStartInFuture = errors.New("start date cannot be in the future")
	// ErrStartAfterEnd is returned when a day range starts after it ends
	ErrStartAfterEnd = errors.New("start date must be before or equal to end date")
	// ErrRangeTooLong is returned when a day range spans more than MaxDailyRangeDays days
	ErrRangeTooLong = fmt.Errorf("date range cannot exceed %d days", MaxDailyRangeDays)
)

// InvalidWindowError reports a window whose start is not strictly before its end
type InvalidWindowError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid observation window: start %s must be before end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrInvalidWindow) succeed
func (e *InvalidWindowError) Is(target error) bool {
	return target == ErrInvalidWindow
}
