package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastNDays(t *testing.T) {
	ref := time.Date(2026, 3, 10, 17, 45, 0, 0, time.UTC)
	days := LastNDays(40, ref)

	require.Len(t, days, 40)
	assert.Equal(t, "2026-03-10", FormatKey(days[39]))
	assert.Equal(t, "2026-01-30", FormatKey(days[0]))

	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i], "day %d is not contiguous", i)
		assert.Less(t, FormatKey(days[i-1]), FormatKey(days[i]))
	}
	for _, d := range days {
		assert.Zero(t, d.Hour())
		assert.Zero(t, d.Minute())
	}
}

func TestLastNDaysEdgeCases(t *testing.T) {
	ref := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, LastNDays(0, ref))
	assert.Empty(t, LastNDays(-3, ref))

	one := LastNDays(1, ref)
	require.Len(t, one, 1)
	assert.Equal(t, "2026-03-10", FormatKey(one[0]))
}

func TestLastNDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 is the spring-forward day in New York.
	ref := time.Date(2026, 3, 9, 1, 30, 0, 0, ny)
	keys := make([]string, 0, 4)
	for _, d := range LastNDays(4, ref) {
		keys = append(keys, FormatKey(d))
	}
	assert.Equal(t, []string{"2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09"}, keys)
}

func TestLastNDaysAcrossYearBoundary(t *testing.T) {
	ref := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	days := LastNDays(3, ref)
	assert.Equal(t, "2025-12-31", FormatKey(days[0]))
	assert.Equal(t, "2026-01-02", FormatKey(days[2]))
}

func TestFormatKeyUsesWallClock(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2026-01-15 23:30 UTC is already the 16th in Tokyo.
	instant := time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-15", FormatKey(instant))
	assert.Equal(t, "2026-01-16", FormatKey(instant.In(tokyo)))
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "2026-01-15"},
		{key: "2024-02-29"},
		{key: "2026-02-29", wantErr: true},
		{key: "2026-1-15", wantErr: true},
		{key: "2026/01/15", wantErr: true},
		{key: "", wantErr: true},
		{key: "2026-01-15T00:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParseKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ValidateKey(tt.key))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, FormatKey(got))
		})
	}
}

func TestIsWeekend(t *testing.T) {
	// 2026-10-17 is a Saturday.
	sat := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsWeekend(sat))
	assert.True(t, IsWeekend(sat.AddDate(0, 0, 1)))
	assert.False(t, IsWeekend(sat.AddDate(0, 0, 2)))
	assert.False(t, IsWeekend(sat.AddDate(0, 0, -1)))
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-29", RetentionCutoff(now))
}
