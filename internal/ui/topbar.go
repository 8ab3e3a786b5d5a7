package ui

import (
	"github.com/charmbracelet/lipgloss"

	"booklib/internal/ui/textutil"
)

// TopBar shows the logo, the navigation actions, the search bar and the
// sign-in state.
type TopBar struct {
	Search   *SearchBar
	SignedIn bool
	Mode     ViewMode
	width    int
}

// NewTopBar creates a top bar with an empty search bar.
func NewTopBar() *TopBar {
	return &TopBar{Search: NewSearchBar()}
}

// SetWidth sets the rendered width.
func (t *TopBar) SetWidth(w int) { t.width = w }

// View renders the bar on one line, truncated to the terminal width.
func (t *TopBar) View() string {
	logo := Styles.Logo.Render("BookLib")
	browse := Styles.Muted.Render("SPC b browse")
	if t.Mode == ViewBrowse {
		browse = Styles.Selected.Render("browse")
	}
	account := Styles.Muted.Render("SPC a l login")
	if t.SignedIn {
		account = Styles.Status.Render("● signed in")
	}
	line := lipgloss.JoinHorizontal(lipgloss.Center,
		logo, "   ", browse, "   ", t.Search.View(), "   ", account)
	if t.width > 0 && textutil.VisualWidthStyled(line) > t.width {
		line = lipgloss.NewStyle().MaxWidth(t.width).Render(line)
	}
	return Styles.Bar.Render(line)
}
