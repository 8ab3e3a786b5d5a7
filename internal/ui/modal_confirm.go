package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"booklib/internal/api"
)

// ConfirmModal asks before a destructive action. y or enter confirms; esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg

	boxStyle   lipgloss.Style
	titleStyle lipgloss.Style
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:      title,
		Label:      label,
		OnConfirm:  onConfirm,
		boxStyle:   Styles.BoxDanger,
		titleStyle: Styles.TitleWarning,
	}
}

// WithDetails adds a warning line under the label.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewDeleteBookConfirmModal confirms deleting b from the catalog.
func NewDeleteBookConfirmModal(b api.Book) *ConfirmModal {
	label := fmt.Sprintf("%q", b.Title)
	if b.Author != "" {
		label += " by " + b.Author
	}
	id, title := b.ID, b.Title
	return NewConfirmModal("Delete book?", label, func() tea.Msg {
		return DeleteBookMsg{BookID: id, Title: title}
	}).WithDetails("Its reviews, ratings and comments go with it.")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "n":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Rating.UnsetBold().Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return m.boxStyle.Render(content)
}
