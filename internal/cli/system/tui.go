package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Automatic backup on startup, after the store has been loaded
	ctx.PerformAutomaticBackup()

	m := tui.NewModel(tui.Options{
		Store:  ctx.Store,
		Config: ctx.Config,
		Now:    ctx.Clock(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
