package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNewStatistics tests if a new statistics struct is properly initialized
func TestNewStatistics(t *testing.T) {
	stats := NewStatistics()

	assert.Zero(t, stats.Transmitted())
	assert.Zero(t, stats.Received())
	assert.Zero(t, stats.SendFailures())
	assert.Zero(t, stats.PacketLoss())
	assert.Zero(t, stats.RTTMin())
	assert.Zero(t, stats.RTTMax())
	assert.Zero(t, stats.RTTAvg())
	assert.Zero(t, stats.RTTMDev())
	assert.Zero(t, stats.Elapsed())
}

// TestStatisticsCounters tests the counters and the packet loss
func TestStatisticsCounters(t *testing.T) {
	stats := NewStatistics()

	for i := 0; i < 4; i++ {
		stats.EchoRequested()
	}
	stats.EchoFailed()
	stats.EchoReplied(time.Millisecond)

	assert.Equal(t, 4, stats.Transmitted())
	assert.Equal(t, 1, stats.Received())
	assert.Equal(t, 1, stats.SendFailures())
	assert.InDelta(t, 0.75, stats.PacketLoss(), 1e-9)
}

// TestStatisticsRTTs tests min, max, avg and mdev over known values
func TestStatisticsRTTs(t *testing.T) {
	stats := NewStatistics()

	for _, ms := range []int{2, 4, 4, 4, 5, 5, 7, 9} {
		stats.EchoRequested()
		stats.EchoReplied(time.Duration(ms) * time.Millisecond)
	}

	assert.Equal(t, 2*time.Millisecond, stats.RTTMin())
	assert.Equal(t, 9*time.Millisecond, stats.RTTMax())
	assert.Equal(t, 5*time.Millisecond, stats.RTTAvg())
	assert.InDelta(t, float64(2*time.Millisecond), float64(stats.RTTMDev()), float64(time.Microsecond))
	assert.Zero(t, stats.PacketLoss())
}

// TestStatisticsElapsed tests the session duration
func TestStatisticsElapsed(t *testing.T) {
	stats := NewStatistics()
	start := time.Now()

	stats.SessionStarted(start)
	assert.Zero(t, stats.Elapsed())

	stats.SessionEnded(start.Add(1500 * time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, stats.Elapsed())
}
