package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition; implements Bubble Tea's Init/Update/View.
// Each View is a screen or modal with its own model, update and view.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// Sizable is implemented by views that lay themselves out to the terminal size.
type Sizable interface {
	SetSize(width, height int)
}
