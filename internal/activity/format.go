package activity

import "fmt"

// FormatDuration renders milliseconds as HH:MM:SS. The hours field grows past
// two digits when needed; zero and negative input render as 00:00:00.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "00:00:00"
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds / 60) % 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
