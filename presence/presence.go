// Package presence derives a device's online/offline status from the
// timestamp of its most recent telemetry. The persisted is_online flag is a
// hint only; this derivation is the authoritative answer.
package presence

import (
	"os"
	"strconv"
	"time"
)

// DefaultWindow is how recently a device must have reported to count as
// online.
const DefaultWindow = 10 * time.Second

// IsOnline reports whether a device with the given last-seen timestamp is
// online at now. A device with no recorded telemetry is offline. The result
// is monotonic in now: once a device falls offline it cannot come back
// without a newer reading.
func IsOnline(lastSeen *time.Time, now time.Time, window time.Duration) bool {
	if lastSeen == nil {
		return false
	}
	return now.Sub(*lastSeen) < window
}

// WindowFromEnv reads ONLINE_WINDOW_SECONDS, falling back to DefaultWindow
// when unset or invalid.
func WindowFromEnv() time.Duration {
	raw := os.Getenv("ONLINE_WINDOW_SECONDS")
	if raw == "" {
		return DefaultWindow
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return DefaultWindow
	}

	return time.Duration(seconds) * time.Second
}
