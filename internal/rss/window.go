package rss

import "time"

const (
	defaultLookback = 48 * time.Hour
	minLookback     = 24 * time.Hour
	maxLookback     = 30 * 24 * time.Hour
)

// Lookback picks the fetch window from the last successful run: 48h when
// there is none, at least 24h, at most 30 days, otherwise since last.
func Lookback(last *time.Time, now time.Time) (start, end time.Time) {
	end = now
	if last == nil {
		return end.Add(-defaultLookback), end
	}
	since := end.Sub(*last)
	switch {
	case since < minLookback:
		start = end.Add(-minLookback)
	case since > maxLookback:
		start = end.Add(-maxLookback)
	default:
		start = *last
	}
	return start, end
}

// Fixed returns a window of d ending at now.
func Fixed(d time.Duration, now time.Time) (start, end time.Time) {
	return now.Add(-d), now
}
