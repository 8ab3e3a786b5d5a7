package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"booklib/internal/api"
)

const actionTimeout = 30 * time.Second

// loadBooksCmd reads the catalog once. An empty catalog comes back as an
// empty, non-nil slice.
func loadBooksCmd(ctx context.Context, c Catalog, taskID uint64) tea.Cmd {
	return func() tea.Msg {
		books, err := c.ListBooks(ctx)
		if err == nil && books == nil {
			books = []api.Book{}
		}
		return booksLoadedMsg{TaskID: taskID, Books: books, Err: err}
	}
}

// loadBookDetailCmd reads one book with its reviews, ratings and comments.
func loadBookDetailCmd(ctx context.Context, c Catalog, taskID uint64, id int64) tea.Cmd {
	return func() tea.Msg {
		book, err := c.GetFullBook(ctx, id)
		return bookDetailLoadedMsg{TaskID: taskID, BookID: id, Book: book, Err: err}
	}
}

// loginCmd signs in and returns the token; saving it is up to the receiver.
func loginCmd(ctx context.Context, a Authenticator, taskID uint64, username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := a.Login(ctx, username, password)
		return authResultMsg{TaskID: taskID, Username: username, Token: token, Err: err}
	}
}

func registerCmd(ctx context.Context, a Authenticator, taskID uint64, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		err := a.Register(ctx, username, email, password)
		return authResultMsg{TaskID: taskID, Register: true, Username: username, Err: err}
	}
}

func deleteBookCmd(c Catalog, id int64, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return bookActionDoneMsg{Action: "delete", BookID: id, Title: title, Err: c.DeleteBook(ctx, id)}
	}
}

func recheckBookCmd(c Catalog, id int64, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return bookActionDoneMsg{Action: "recheck", BookID: id, Title: title, Err: c.RecheckBook(ctx, id)}
	}
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, Error: isErr} }
}
