package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HomeView is the welcome screen.
type HomeView struct{}

var _ View = (*HomeView)(nil)

// NewHomeView creates the home screen.
func NewHomeView() *HomeView {
	return &HomeView{}
}

// Init implements View.
func (h *HomeView) Init() tea.Cmd { return nil }

// Update implements View.
func (h *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "enter" {
		return h, func() tea.Msg { return BrowseMsg{} }
	}
	return h, nil
}

// View implements View.
func (h *HomeView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Welcome to BookLib") + "\n\n")
	b.WriteString(Styles.Normal.Render("Browse the catalog, read reviews, ratings and comments.") + "\n\n")
	for _, hint := range [][2]string{
		{"enter / SPC b", "browse all books"},
		{"/", "search by title, author or anything"},
		{"SPC a l", "log in"},
		{"SPC a r", "create an account"},
		{"SPC q", "quit"},
	} {
		b.WriteString("  " + Styles.Selected.Render(hint[0]) + "  " + Styles.Hint.Render(hint[1]) + "\n")
	}
	return b.String()
}
