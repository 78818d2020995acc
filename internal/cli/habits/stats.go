package habits

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/levelup/internal/analytics"
	"github.com/julianstephens/levelup/internal/cli"
)

type StatsCmd struct {
	JSON bool `name:"json" help:"Print machine-readable JSON."`
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// statsReport is the --json output.
type statsReport struct {
	Summary analytics.Summary     `json:"summary"`
	Days    []analytics.DayScore  `json:"days"`
	Habits  []analytics.HabitStat `json:"habits"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	report := statsReport{
		Summary: s.Summary(),
		Days:    s.Scores(),
		Habits:  s.HabitStats(),
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	ctx.Printf("Today:        %d%%\n", report.Summary.Today)
	ctx.Printf("Average:      %d%%\n", report.Summary.Average)
	ctx.Printf("Habits:       %d\n", report.Summary.ActiveHabits)
	ctx.Printf("Total checks: %d\n", report.Summary.TotalChecks)

	if len(report.Habits) == 0 {
		return nil
	}

	ctx.Println()
	rows := make([][]string, 0, len(report.Habits))
	for _, st := range report.Habits {
		rows = append(rows, []string{
			st.Name,
			strconv.Itoa(st.Checks),
			fmt.Sprintf("%.0f%%", st.Rate*100),
			strconv.Itoa(st.CurrentStreak),
			strconv.Itoa(st.LongestStreak),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(missStyle).
		Headers("HABIT", "CHECKS", "RATE", "STREAK", "BEST").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
	ctx.Println(t.Render())
	return nil
}
