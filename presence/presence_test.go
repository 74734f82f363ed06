package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOnline(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		lastSeen *time.Time
		expected bool
	}{
		{
			name:     "no telemetry recorded",
			lastSeen: nil,
			expected: false,
		},
		{
			name:     "seen just now",
			lastSeen: timePtr(now),
			expected: true,
		},
		{
			name:     "seen within the window",
			lastSeen: timePtr(now.Add(-9 * time.Second)),
			expected: true,
		},
		{
			name:     "seen exactly at the window boundary",
			lastSeen: timePtr(now.Add(-DefaultWindow)),
			expected: false,
		},
		{
			name:     "seen long ago",
			lastSeen: timePtr(now.Add(-time.Minute)),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOnline(tt.lastSeen, now, DefaultWindow))
		})
	}
}

// Once a device falls offline, advancing now further must never flip it
// back online without a newer reading.
func TestIsOnlineMonotonicInNow(t *testing.T) {
	now := time.Now()
	lastSeen := timePtr(now.Add(-5 * time.Second))

	wasOnline := true
	for elapsed := time.Duration(0); elapsed < 30*time.Second; elapsed += time.Second {
		online := IsOnline(lastSeen, now.Add(elapsed), DefaultWindow)
		if !wasOnline {
			assert.False(t, online, "device flipped back online at +%s without a new reading", elapsed)
		}
		wasOnline = online
	}
	assert.False(t, wasOnline)
}

func TestWindowFromEnv(t *testing.T) {
	t.Run("unset falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultWindow, WindowFromEnv())
	})

	t.Run("valid override", func(t *testing.T) {
		t.Setenv("ONLINE_WINDOW_SECONDS", "30")
		assert.Equal(t, 30*time.Second, WindowFromEnv())
	})

	t.Run("garbage falls back to default", func(t *testing.T) {
		t.Setenv("ONLINE_WINDOW_SECONDS", "soon")
		assert.Equal(t, DefaultWindow, WindowFromEnv())
	})

	t.Run("non-positive falls back to default", func(t *testing.T) {
		t.Setenv("ONLINE_WINDOW_SECONDS", "0")
		assert.Equal(t, DefaultWindow, WindowFromEnv())
	})
}

func timePtr(t time.Time) *time.Time {
	return &t
}
