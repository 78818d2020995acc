package habits

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/session"
	"github.com/julianstephens/levelup/internal/storage/memory"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local)

func setup(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store: memory.NewStore(),
		Out:   out,
		Clock: func() time.Time { return now },
	}
	return ctx, out
}

func mustSession(t *testing.T, ctx *cli.Context) *session.Session {
	t.Helper()
	s, err := ctx.Session()
	require.NoError(t, err)
	return s
}

func TestHabitAddAndList(t *testing.T) {
	ctx, out := setup(t)

	require.NoError(t, (&HabitAddCmd{Name: []string{"Read", "20", "pages"}}).Run(ctx))
	assert.Contains(t, out.String(), "Added habit: Read 20 pages")

	err := (&HabitAddCmd{Name: []string{"read 20 PAGES"}}).Run(ctx)
	assert.ErrorIs(t, err, session.ErrDuplicateName)

	out.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Equal(t, "[ ] Read 20 pages\n", out.String())
}

func TestHabitListEmpty(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No habits found")
}

func TestToggleCmd(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))

	out.Reset()
	require.NoError(t, (&ToggleCmd{Habit: "run"}).Run(ctx))
	assert.Contains(t, out.String(), "Run done on 2026-10-17")
	assert.True(t, mustSession(t, ctx).IsCompleted(mustSession(t, ctx).Habits()[0].ID, "2026-10-17"))

	out.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Equal(t, "[✓] Run\n", out.String())

	out.Reset()
	require.NoError(t, (&ToggleCmd{Habit: "Run"}).Run(ctx))
	assert.Contains(t, out.String(), "Run cleared on 2026-10-17")
}

func TestToggleCmdDates(t *testing.T) {
	ctx, _ := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))

	tests := []struct {
		name    string
		date    string
		wantErr string
	}{
		{"first window day", "2026-09-08", ""},
		{"before window", "2026-09-07", "only the last 40 days"},
		{"future", "2026-10-18", "in the future"},
		{"malformed", "10/17/2026", "invalid date format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ToggleCmd{Habit: "Run", Date: tt.date}).Run(ctx)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToggleCmdUnknownHabit(t *testing.T) {
	ctx, _ := setup(t)
	err := (&ToggleCmd{Habit: "ghost"}).Run(ctx)
	assert.ErrorIs(t, err, session.ErrHabitNotFound)
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))
	require.NoError(t, (&ToggleCmd{Habit: "Run"}).Run(ctx))
	require.NoError(t, (&ToggleCmd{Habit: "Run", Date: "2026-10-16"}).Run(ctx))

	out.Reset()
	require.NoError(t, (&HabitDeleteCmd{Habit: "Run", Yes: true}).Run(ctx))
	assert.Contains(t, out.String(), "2 log(s) removed")

	s := mustSession(t, ctx)
	assert.Empty(t, s.Habits())
	assert.Empty(t, s.Logs())
}

func TestHabitDeleteCmdKeepLogs(t *testing.T) {
	ctx, _ := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))
	require.NoError(t, (&ToggleCmd{Habit: "Run"}).Run(ctx))

	require.NoError(t, (&HabitDeleteCmd{Habit: "Run", Yes: true, KeepLogs: true}).Run(ctx))
	s := mustSession(t, ctx)
	assert.Empty(t, s.Habits())
	assert.Len(t, s.Logs(), 1)
}

func TestGridCmd(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))
	require.NoError(t, (&HabitAddCmd{Name: []string{"Read"}}).Run(ctx))
	require.NoError(t, (&ToggleCmd{Habit: "Run"}).Run(ctx))

	out.Reset()
	require.NoError(t, (&GridCmd{}).Run(ctx))
	grid := out.String()

	lines := strings.Split(strings.TrimRight(grid, "\n"), "\n")
	// two header rows, two habits, score row, blank, summary
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[2], "Run "))
	assert.Equal(t, 40, strings.Count(lines[2], doneCell)+strings.Count(lines[2], missCell))
	assert.Equal(t, 1, strings.Count(lines[2], doneCell))
	assert.Equal(t, 0, strings.Count(lines[3], doneCell))
	assert.True(t, strings.HasSuffix(lines[4], "5"))
	assert.Contains(t, grid, "Today: 50%")
}

func TestGridCmdDays(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))

	out.Reset()
	require.NoError(t, (&GridCmd{Days: 7}).Run(ctx))
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, 7, strings.Count(lines[2], missCell))
}

func TestStatsCmdJSON(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))
	require.NoError(t, (&ToggleCmd{Habit: "Run"}).Run(ctx))

	out.Reset()
	require.NoError(t, (&StatsCmd{JSON: true}).Run(ctx))

	var report statsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 100, report.Summary.Today)
	assert.Equal(t, 1, report.Summary.TotalChecks)
	require.Len(t, report.Days, 40)
	assert.Equal(t, "2026-10-17", report.Days[39].Key)
	require.Len(t, report.Habits, 1)
	assert.Equal(t, 1, report.Habits[0].CurrentStreak)
}

func TestStatsCmdText(t *testing.T) {
	ctx, out := setup(t)
	require.NoError(t, (&HabitAddCmd{Name: []string{"Run"}}).Run(ctx))
	require.NoError(t, (&ToggleCmd{Habit: "Run"}).Run(ctx))

	out.Reset()
	require.NoError(t, (&StatsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Habits:       1")
	assert.Contains(t, out.String(), "HABIT")
	assert.Contains(t, out.String(), "│ Run")
}
