package shared

import "time"

// Clock supplies the current calendar date. All lease date arithmetic is done
// on UTC midnights so that day counts never depend on the time of day.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Today returns the current UTC date at midnight
func (SystemClock) Today() time.Time {
	return DateOnly(time.Now())
}

// FixedClock always returns the same date
type FixedClock struct {
	Date time.Time
}

// Today returns the fixed date at midnight
func (c FixedClock) Today() time.Time {
	return DateOnly(c.Date)
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
