package utils

import "time"

// Unix seconds everywhere in the DB.
func NowUnixSeconds() int64 { return time.Now().Unix() }

// PeriodKey returns the billing-period bucket for a point in time, e.g.
// "2026-08". AI-call counters are keyed by it; a new month means a fresh
// row, old rows are simply ignored.
func PeriodKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func CurrentPeriodKey() string {
	return PeriodKey(time.Now())
}

// FromUnixSeconds converts an epoch value in seconds to UTC time.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
