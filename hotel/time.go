package hotel

import "time"

// =============================================================================
// LOCAL CALENDAR KEYS - Income grouping and day matching
// =============================================================================

// DateKey returns the local calendar date key, e.g. "2024-01-02".
func DateKey(t time.Time) string { return t.Local().Format("2006-01-02") }

// MonthKey returns the local calendar year-month key, e.g. "2024-01".
func MonthKey(t time.Time) string { return t.Local().Format("2006-01") }

// DayWindow returns the local [00:00:00, 23:59:59.999] window for the day
// containing t, for whole-day availability checks.
func DayWindow(t time.Time) (start, end time.Time) {
	lt := t.Local()
	start = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, lt.Location())
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}
