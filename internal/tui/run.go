package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen browser and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, d Deps) error {
	if d.Context == nil {
		d.Context = ctx
	}
	m := New(d)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if d.Debouncer != nil {
		d.Debouncer.Stop()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: run: %w", err)
	}
	return nil
}
