package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive review session and blocks until it finishes.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("review session failed: %w", err)
	}
	return nil
}
