package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/levelup/internal/constants"
	"github.com/julianstephens/levelup/internal/gate"
	"github.com/julianstephens/levelup/internal/session"
)

type HabitFormModel struct {
	Name string
}

type Model struct {
	session  *session.Session
	gate     *gate.Gate
	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	password textinput.Model
	form     *habitForm
	row      int
	col      int
	quitting bool
	width    int
	height   int

	habitToDeleteID string
	status          string
	formError       string

	// backup runs before a habit is deleted
	backup func()
}

type Option func(*Model)

// WithBackup sets the hook run before each habit deletion.
func WithBackup(fn func()) Option {
	return func(m *Model) {
		m.backup = fn
	}
}

// habitForm pairs a huh form with the values it writes into.
type habitForm struct {
	*huh.Form
	values *HabitFormModel
}

// NewModel builds the TUI over an open session. A nil gate skips the
// lock screen.
func NewModel(s *session.Session, g *gate.Gate, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128

	m := Model{
		session:  s,
		gate:     g,
		state:    constants.StateGrid,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		password: ti,
	}
	if g != nil {
		m.state = constants.StateLocked
		m.password.Focus()
	}
	m.col = len(s.Window()) - 1
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateLocked:
		return []key.Binding{m.keys.Enter}
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Yes, m.keys.No}
	case constants.StateStats:
		return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	}
	return []key.Binding{m.keys.Toggle, m.keys.Add, m.keys.Delete, m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Today}
	actions := []key.Binding{m.keys.Toggle, m.keys.Add, m.keys.Delete}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	if m.state == constants.StateLocked {
		return textinput.Blink
	}
	return nil
}

func newHabitForm() *habitForm {
	values := &HabitFormModel{}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&values.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return session.ErrEmptyName
					}
					return nil
				}),
		),
	).WithShowHelp(true)
	return &habitForm{Form: form, values: values}
}
