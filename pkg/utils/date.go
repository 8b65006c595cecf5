package utils

import (
	"time"
)

// TimeNowUTC returns the current time normalized to UTC. All persisted
// timestamps use this so rows compare consistently across market timezones.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// PrettyDate formats a timestamp for user-facing notification text.
func PrettyDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04 MST")
}
