package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodDateUsesBusinessZone(t *testing.T) {
	// 20:00 UTC is 01:00 next day in UTC+5.
	at := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-11", PeriodDate(at))
}

func TestSamePeriodAcrossBusinessMidnight(t *testing.T) {
	before := time.Date(2026, 3, 10, 18, 59, 0, 0, time.UTC) // 23:59 in UTC+5
	after := time.Date(2026, 3, 10, 19, 1, 0, 0, time.UTC)   // 00:01 next day

	assert.False(t, SamePeriod(before, after))
	assert.True(t, SamePeriod(before, before.Add(-6*time.Hour)))
}

func TestPeriodStart(t *testing.T) {
	at := time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC)
	start := PeriodStart(at)

	assert.Equal(t, "2026-03-11", PeriodDate(start))
	assert.True(t, start.Before(at) || start.Equal(at))
	assert.Equal(t, 0, start.Hour())
}
