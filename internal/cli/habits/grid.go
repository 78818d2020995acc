package habits

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/session"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	weekendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

const (
	doneCell = "■"
	missCell = "·"
)

type GridCmd struct {
	Days int `help:"Only show the most recent N days." default:"0"`
}

func (c *GridCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Writer(), RenderGrid(s, c.Days))
	return nil
}

// RenderGrid draws one row per habit and one column per window day, with a
// score row and summary underneath. days <= 0 shows the whole window.
func RenderGrid(s *session.Session, days int) string {
	habits := s.Habits()
	scores := s.Scores()
	if days > 0 && days < len(scores) {
		scores = scores[len(scores)-days:]
	}

	if len(habits) == 0 {
		return "No habits found. Add one with 'levelup habit add <name>'.\n"
	}

	nameWidth := len("Score")
	for _, h := range habits {
		if w := utf8.RuneCountInString(h.Name); w > nameWidth {
			nameWidth = w
		}
	}
	pad := func(name string) string {
		return name + strings.Repeat(" ", nameWidth-utf8.RuneCountInString(name))
	}

	var b strings.Builder

	// day-of-month header, two rows so every column stays one cell wide
	tens := make([]string, 0, len(scores))
	ones := make([]string, 0, len(scores))
	for _, ds := range scores {
		d := fmt.Sprintf("%02d", ds.Date.Day())
		style := headerStyle
		if ds.Weekend {
			style = weekendStyle
		}
		tens = append(tens, style.Render(d[:1]))
		ones = append(ones, style.Render(d[1:]))
	}
	fmt.Fprintf(&b, "%s  %s\n", pad(""), strings.Join(tens, " "))
	fmt.Fprintf(&b, "%s  %s\n", pad(""), strings.Join(ones, " "))

	today := s.Today()
	for _, h := range habits {
		cells := make([]string, 0, len(scores))
		for _, ds := range scores {
			var cell string
			if s.IsCompleted(h.ID, ds.Key) {
				cell = doneStyle.Render(doneCell)
			} else if ds.Weekend {
				cell = weekendStyle.Render(missCell)
			} else {
				cell = missStyle.Render(missCell)
			}
			if ds.Key == today {
				cell = todayStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		fmt.Fprintf(&b, "%s  %s\n", pad(h.Name), strings.Join(cells, " "))
	}

	// scores as a 0-9 heat row, 9 meaning 90% and up
	heat := make([]string, 0, len(scores))
	for _, ds := range scores {
		level := ds.Score / 10
		if level > 9 {
			level = 9
		}
		heat = append(heat, fmt.Sprintf("%d", level))
	}
	fmt.Fprintf(&b, "%s  %s\n\n", pad("Score"), strings.Join(heat, " "))

	sum := s.Summary()
	fmt.Fprintf(&b, "Today: %d%%  Average: %d%%  Habits: %d  Checks: %d\n",
		sum.Today, sum.Average, sum.ActiveHabits, sum.TotalChecks)
	return b.String()
}
