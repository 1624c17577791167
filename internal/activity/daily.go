package activity

import "time"

// MaxDailyRangeDays bounds the number of day buckets DailyMinutes builds
const MaxDailyRangeDays = 366

// DailyMinutes buckets activity into calendar days of loc, from the day of
// from through the day of to inclusive, at most MaxDailyRangeDays days.
// Ongoing intervals count up to now.
//
// Every interval adds its overlap with a day, rounded to whole minutes, to that
// day's bucket.
func DailyMinutes(intervals []Interval, from, to time.Time, loc *time.Location, now time.Time) ([]DayActivity, error) {
	if loc == nil {
		loc = time.UTC
	}

	first := StartOfDay(from, loc)
	last := StartOfDay(to, loc)
	if first.After(StartOfDay(now, loc)) {
		return nil, ErrStartInFuture
	}
	if first.After(last) {
		return nil, ErrStartAfterEnd
	}
	if last.After(first.AddDate(0, 0, MaxDailyRangeDays-1)) {
		return nil, ErrRangeTooLong
	}

	type bucket struct {
		start, end time.Time
		minutes    int64
	}

	var buckets []bucket
	y, m, d := first.Date()
	for i := 0; ; i++ {
		start := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		if start.After(last) {
			break
		}
		buckets = append(buckets, bucket{start: start, end: time.Date(y, m, d+i+1, 0, 0, 0, 0, loc)})
	}

	for _, iv := range intervals {
		ivEnd := now
		if iv.End != nil {
			ivEnd = *iv.End
		}
		if !ivEnd.After(iv.Start) {
			continue
		}

		for i := range buckets {
			b := &buckets[i]
			start, end := iv.Start, ivEnd
			if start.Before(b.start) {
				start = b.start
			}
			if end.After(b.end) {
				end = b.end
			}
			if !end.After(start) {
				continue
			}
			b.minutes += int64(end.Sub(start).Round(time.Minute) / time.Minute)
		}
	}

	days := make([]DayActivity, len(buckets))
	for i, b := range buckets {
		days[i] = DayActivity{Date: b.start.Format(time.DateOnly), Minutes: b.minutes}
	}
	return days, nil
}
