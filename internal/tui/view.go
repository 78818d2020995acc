package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateLocked:
		return m.viewLocked()
	case constants.StateGrid:
		content = m.viewGrid()
	case constants.StateStats:
		content = m.viewStats()
	case constants.StateAddHabit:
		content = m.form.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) selectedHabit() (models.Habit, bool) {
	habits := m.session.Habits()
	if m.row < 0 || m.row >= len(habits) {
		return models.Habit{}, false
	}
	return habits[m.row], true
}

func (m Model) viewTabs() string {
	tabs := []struct {
		title string
		state constants.SessionState
	}{
		{"Grid", constants.StateGrid},
		{"Stats", constants.StateStats},
	}

	var out []string
	for _, t := range tabs {
		if m.state == t.state {
			out = append(out, activeTabStyle.Render(t.title))
		} else {
			out = append(out, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewStatus() string {
	if m.formError != "" {
		return dangerStyle.Render(m.formError)
	}
	if m.status != "" {
		return warningStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewLocked() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(constants.AppName),
		"",
		"Enter password to unlock",
		m.password.View(),
		"",
		dangerStyle.Render(m.formError),
	)
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) viewGrid() string {
	habits := m.session.Habits()
	scores := m.session.Scores()
	if len(habits) == 0 {
		return "No habits yet. Press 'a' to add one."
	}

	nameWidth := utf8.RuneCountInString("Score")
	for _, h := range habits {
		if w := utf8.RuneCountInString(h.Name); w > nameWidth {
			nameWidth = w
		}
	}
	pad := func(name string) string {
		return name + strings.Repeat(" ", nameWidth-utf8.RuneCountInString(name))
	}

	var b strings.Builder

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

	for r, h := range habits {
		cells := make([]string, 0, len(scores))
		for c, ds := range scores {
			var cell string
			switch {
			case m.session.IsCompleted(h.ID, ds.Key):
				cell = doneStyle.Render(doneCell)
			case ds.Weekend:
				cell = weekendStyle.Render(missCell)
			default:
				cell = missStyle.Render(missCell)
			}
			if r == m.row && c == m.col {
				cell = cursorStyle.Render(cell)
			}
			cells = append(cells, cell)
		}
		name := pad(h.Name)
		if r == m.row {
			name = headerStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s  %s\n", name, strings.Join(cells, " "))
	}

	heat := make([]string, 0, len(scores))
	for _, ds := range scores {
		heat = append(heat, fmt.Sprintf("%d", min(ds.Score/10, 9)))
	}
	fmt.Fprintf(&b, "%s  %s\n", pad("Score"), strings.Join(heat, " "))

	if m.col >= 0 && m.col < len(scores) {
		ds := scores[m.col]
		fmt.Fprintf(&b, "\n%s  %d/%d done  %d%%", ds.Key, ds.Completed, len(habits), ds.Score)
	}
	return b.String()
}

func (m Model) viewStats() string {
	sum := m.session.Summary()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Last %d days", constants.WindowDays)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Today:         %d%%\n", sum.Today)
	fmt.Fprintf(&b, "Average:       %d%%\n", sum.Average)
	fmt.Fprintf(&b, "Active habits: %d\n", sum.ActiveHabits)
	fmt.Fprintf(&b, "Total checks:  %d\n", sum.TotalChecks)

	stats := m.session.HabitStats()
	if len(stats) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Habit"))
	b.WriteString("\n")
	for _, st := range stats {
		fmt.Fprintf(&b, "%-20s %3d checks  %5.1f%%  streak %d (best %d)\n",
			st.Name, st.Checks, st.Rate*100, st.CurrentStreak, st.LongestStreak)
	}
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, err := m.session.FindHabit(m.habitToDeleteID); err == nil {
		name = h.Name
	}
	prompt := fmt.Sprintf("Delete habit %q?", name)
	if m.session.Settings().CascadeDelete {
		prompt += " Its logs will be removed too."
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render(prompt),
		"",
		"[y] Yes",
		"[n] No",
	)
}
