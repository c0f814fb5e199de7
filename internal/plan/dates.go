package plan

import "time"

// DateLayout is the calendar-date form used by every date field.
const DateLayout = "2006-01-02"

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp formats t as an ISO-8601 UTC timestamp with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseDate parses a calendar date. Empty or malformed input reports false.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// AddDays returns the calendar date n days after s.
func AddDays(s string, n int) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}

	return t.AddDate(0, 0, n).Format(DateLayout), true
}
