package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal chat client and blocks until the user quits.
func Run(ask AskFunc) error {
	p := tea.NewProgram(NewModel(ask), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
