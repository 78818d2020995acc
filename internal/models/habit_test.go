package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogID(t *testing.T) {
	assert.Equal(t, "abc_2026-01-15", LogID("abc", "2026-01-15"))
}

func TestSplitLogID(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantHabit string
		wantDate  string
		wantOK    bool
	}{
		{name: "simple", id: "abc_2026-01-15", wantHabit: "abc", wantDate: "2026-01-15", wantOK: true},
		{name: "habit id with separator", id: "a_b_2026-01-15", wantHabit: "a_b", wantDate: "2026-01-15", wantOK: true},
		{name: "no separator", id: "abc", wantOK: false},
		{name: "empty habit", id: "_2026-01-15", wantOK: false},
		{name: "empty date", id: "abc_", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, d, ok := SplitLogID(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantHabit, h)
			assert.Equal(t, tt.wantDate, d)
		})
	}
}

func TestNewLogEntry(t *testing.T) {
	at := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	e := NewLogEntry("h1", "2026-01-15", at)

	assert.Equal(t, "h1_2026-01-15", e.ID)
	assert.Equal(t, "h1", e.HabitID)
	assert.Equal(t, "2026-01-15", e.Date)
	assert.True(t, e.CompletedAt.Equal(at))
}
