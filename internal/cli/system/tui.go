package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/levelup/internal/cli"
	"github.com/julianstephens/levelup/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Session()
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	g := ctx.Gate
	if ctx.NoLock {
		g = nil
	}

	p := tea.NewProgram(tui.NewModel(s, g, tui.WithBackup(ctx.PerformAutomaticBackup)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
