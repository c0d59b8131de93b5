package document

import "time"

// NormalizeModTime converts a raw filesystem modification time into the
// calendar date-time used for documents. All documents live in UTC.
func NormalizeModTime(t time.Time) time.Time {
	return t.UTC()
}

// combine pairs a calendar date with the time-of-day of clock.
func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)
}
