package dictapi

import "time"

// DefaultMaxAgeHours is how long fetched details stay fresh: 7 days.
const DefaultMaxAgeHours = 168

// NeedsRefresh reports whether details fetched at lastFetched (nil when the
// word was never enriched) are older than maxAgeHours. Non-positive
// maxAgeHours falls back to DefaultMaxAgeHours.
func NeedsRefresh(lastFetched *time.Time, maxAgeHours int) bool {
	if lastFetched == nil {
		return true
	}
	if maxAgeHours <= 0 {
		maxAgeHours = DefaultMaxAgeHours
	}
	return time.Since(*lastFetched) > time.Duration(maxAgeHours)*time.Hour
}
