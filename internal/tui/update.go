package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/gate"
	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	switch m.state {
	case constants.StateLocked:
		return m.updateLocked(msg)
	case constants.StateAddHabit:
		return m.updateAddHabit(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		if m.state == constants.StateGrid {
			m.state = constants.StateStats
		} else {
			m.state = constants.StateGrid
		}
		return m, nil
	}

	if m.state == constants.StateGrid {
		return m.updateGrid(keyMsg)
	}
	return m, nil
}

func (m Model) updateLocked(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case msg.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			return m.unlock()
		}
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m Model) unlock() (tea.Model, tea.Cmd) {
	attempt := m.password.Value()
	m.password.Reset()

	status, err := m.gate.Unlock(attempt)
	switch {
	case errors.Is(err, gate.ErrEmptyPassword):
		m.formError = "Password cannot be empty"
		return m, nil
	case err != nil:
		logger.Warn("Unlock failed", "error", err)
		m.formError = fmt.Sprintf("Keyring error: %v (run with --no-lock to skip)", err)
		return m, nil
	}

	switch status {
	case gate.StatusCreated:
		m.status = "Password created"
	case gate.StatusUnlocked:
		m.status = ""
	default:
		m.formError = "Incorrect password"
		return m, nil
	}

	m.formError = ""
	m.password.Blur()
	m.state = constants.StateGrid
	return m, nil
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	habits := m.session.Habits()
	lastCol := len(m.session.Window()) - 1

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.row < len(habits)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < lastCol {
			m.col++
		}
	case key.Matches(msg, m.keys.Today):
		m.col = lastCol
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.Add):
		m.form = newHabitForm()
		m.formError = ""
		m.state = constants.StateAddHabit
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		if h, ok := m.selectedHabit(); ok {
			m.habitToDeleteID = h.ID
			m.state = constants.StateConfirmDelete
		}
	}
	return m, nil
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	h, ok := m.selectedHabit()
	if !ok {
		return m, nil
	}
	window := m.session.Window()
	if len(window) == 0 {
		return m, nil
	}
	m.col = clamp(m.col, 0, len(window)-1)
	dateKey := utils.FormatKey(window[m.col])

	res, err := m.session.Toggle(context.Background(), h.ID, dateKey)
	if err != nil {
		m.formError = fmt.Sprintf("Toggle failed: %v", err)
		return m, nil
	}
	m.formError = ""
	if res.Completed {
		m.status = fmt.Sprintf("✓ %s done on %s", h.Name, dateKey)
	} else {
		m.status = fmt.Sprintf("✗ %s cleared on %s", h.Name, dateKey)
	}
	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateGrid
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.Form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		h, err := m.session.AddHabit(context.Background(), m.form.values.Name)
		if err != nil {
			// Stay in form state on error to allow retry
			m.formError = err.Error()
			m.form = newHabitForm()
			return m, m.form.Init()
		}
		m.formError = ""
		m.status = fmt.Sprintf("Added habit: %s", h.Name)
		m.row = m.indexOf(h.ID)
		m.state = constants.StateGrid
	case huh.StateAborted:
		m.state = constants.StateGrid
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		if m.backup != nil {
			m.backup()
		}
		removed, err := m.session.DeleteHabit(context.Background(), m.habitToDeleteID)
		if err != nil {
			m.formError = fmt.Sprintf("Delete failed: %v", err)
		} else {
			m.formError = ""
			m.status = fmt.Sprintf("Habit deleted (%d log(s) removed)", removed)
		}
		m.habitToDeleteID = ""
		m.row = clamp(m.row, 0, len(m.session.Habits())-1)
		m.state = constants.StateGrid
	case key.Matches(keyMsg, m.keys.No):
		m.habitToDeleteID = ""
		m.state = constants.StateGrid
	}
	return m, nil
}

func (m Model) indexOf(habitID string) int {
	for i, h := range m.session.Habits() {
		if h.ID == habitID {
			return i
		}
	}
	return m.row
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
