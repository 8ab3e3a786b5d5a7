package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"booklib/internal/api"
)

// browse shows the book browser, creating and loading the table the first
// time. Browsing while already browsing keeps the loaded table.
func (a *appModelAdapter) browse() tea.Cmd {
	_ = a.State.Browse()
	a.TopBar.Mode = ViewBrowse
	return a.ensureTable()
}

func (a *appModelAdapter) ensureTable() tea.Cmd {
	if a.Table != nil {
		return nil
	}
	a.Table = NewBookTableView(a.catalog, a.logger)
	if a.width > 0 {
		a.Table.SetSize(a.width, a.bodyHeight())
	}
	return a.Table.Init()
}

// home leaves the browser. The table is dropped, and with it any read in flight.
func (a *appModelAdapter) home() tea.Cmd {
	_ = a.State.Home()
	a.TopBar.Mode = ViewHome
	if a.Table != nil {
		a.Table.Close()
		a.Table = nil
	}
	return nil
}

// search filters the catalog locally, switching to the browser first if needed.
func (a *appModelAdapter) search(q SearchQuery) tea.Cmd {
	a.blurSearch()
	cmd := a.browse()
	a.Table.SetQuery(q)
	return cmd
}

func (a *appModelAdapter) openBookDetail(id int64) tea.Cmd {
	// Only one detail modal at a time.
	if top, ok := a.Overlays.Peek(); ok {
		if _, isDetail := top.View.(*BookDetailModal); isDetail {
			a.dismissTop()
		}
	}
	return a.pushModal(NewBookDetailModal(a.catalog, id, a.logger), "")
}

func (a *appModelAdapter) selectedBook() (api.Book, bool) {
	if a.State.Mode() != ViewBrowse || a.Table == nil {
		return api.Book{}, false
	}
	return a.Table.Selected()
}

func (a *appModelAdapter) showDeleteBook() tea.Cmd {
	b, ok := a.selectedBook()
	if !ok {
		return statusCmd("No book selected.", true)
	}
	return a.pushModal(NewDeleteBookConfirmModal(b), "esc")
}

func (a *appModelAdapter) deleteBook(msg DeleteBookMsg) tea.Cmd {
	if a.catalog == nil {
		return nil
	}
	a.setStatus(fmt.Sprintf("Deleting %q...", msg.Title), false)
	return deleteBookCmd(a.catalog, msg.BookID, msg.Title)
}

func (a *appModelAdapter) recheckBook() tea.Cmd {
	b, ok := a.selectedBook()
	if !ok {
		return statusCmd("No book selected.", true)
	}
	if a.catalog == nil {
		return nil
	}
	a.setStatus(fmt.Sprintf("Rechecking %q...", b.Title), false)
	return recheckBookCmd(a.catalog, b.ID, b.Title)
}

func (a *appModelAdapter) handleBookAction(msg bookActionDoneMsg) tea.Cmd {
	if msg.Err != nil {
		a.logger.Error("book action failed", "action", msg.Action, "book_id", msg.BookID, "err", msg.Err)
		switch {
		case errors.Is(msg.Err, api.ErrUnauthorized):
			a.setStatus("Your session has expired. Log in with SPC a l.", true)
		default:
			a.setStatus(fmt.Sprintf("Could not %s %q: %s", msg.Action, msg.Title, errorSummary(msg.Err)), true)
		}
		return nil
	}
	switch msg.Action {
	case "delete":
		a.setStatus(fmt.Sprintf("Deleted %q.", msg.Title), false)
		if a.Table != nil {
			return a.Table.Reload()
		}
	case "recheck":
		a.setStatus(fmt.Sprintf("Metadata recheck requested for %q.", msg.Title), false)
	}
	return nil
}

func (a *appModelAdapter) showLogin(register bool) tea.Cmd {
	return a.pushModal(NewLoginModal(a.auth, a.session, register, a.logger), "")
}

func (a *appModelAdapter) handleLoggedIn(msg LoggedInMsg) tea.Cmd {
	if top, ok := a.Overlays.Peek(); ok {
		if _, isLogin := top.View.(*LoginModal); isLogin {
			a.dismissTop()
		}
	}
	a.setStatus("Signed in as "+msg.Username+".", false)
	return nil
}

func (a *appModelAdapter) logout() tea.Cmd {
	if a.session == nil || !a.SignedIn() {
		a.setStatus("Not signed in.", false)
		return nil
	}
	if err := a.session.ClearToken(); err != nil {
		a.logger.Error("clear auth token", "err", err)
		a.setStatus("Could not sign out.", true)
		return nil
	}
	a.logger.Info("signed out")
	a.setStatus("Signed out.", false)
	return nil
}
