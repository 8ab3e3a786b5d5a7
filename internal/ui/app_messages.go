package ui

import "booklib/internal/api"

// BrowseMsg switches to the book browser (SPC b).
type BrowseMsg struct{}

// HomeMsg switches to the home screen (SPC h).
type HomeMsg struct{}

// SearchMsg is submitted by the search bar. It switches to the browser and
// filters the loaded catalog; it never issues a request.
type SearchMsg struct {
	Query SearchQuery
}

// FocusSearchMsg moves focus to the search bar (/).
type FocusSearchMsg struct{}

// OpenBookDetailMsg opens the detail modal for one book.
type OpenBookDetailMsg struct {
	BookID int64
}

// CloseBookDetailMsg closes the detail modal.
type CloseBookDetailMsg struct{}

// ShowLoginMsg opens the login modal, in register mode when Register is set.
type ShowLoginMsg struct {
	Register bool
}

// LoggedInMsg is sent after a successful login and token save.
type LoggedInMsg struct {
	Username string
}

// LogoutMsg deletes the stored token (SPC a o).
type LogoutMsg struct{}

// DismissModalMsg closes the top modal.
type DismissModalMsg struct{}

// ShowDeleteBookMsg asks for confirmation before deleting the selected book (SPC k d).
type ShowDeleteBookMsg struct{}

// DeleteBookMsg is sent once deletion is confirmed.
type DeleteBookMsg struct {
	BookID int64
	Title  string
}

// RecheckBookMsg asks the backend to refresh the selected book's metadata (SPC k r).
type RecheckBookMsg struct{}

// StatusMsg sets the one-line status shown under the screen.
type StatusMsg struct {
	Text  string
	Error bool
}

// booksLoadedMsg carries the result of a catalog read.
type booksLoadedMsg struct {
	TaskID uint64
	Books  []api.Book
	Err    error
}

// bookDetailLoadedMsg carries the result of a full-book read.
type bookDetailLoadedMsg struct {
	TaskID uint64
	BookID int64
	Book   *api.FullBook
	Err    error
}

// authResultMsg carries the result of a login or register attempt.
type authResultMsg struct {
	TaskID   uint64
	Register bool
	Username string
	Token    string
	Err      error
}

// bookActionDoneMsg carries the result of a delete or recheck.
type bookActionDoneMsg struct {
	Action string
	BookID int64
	Title  string
	Err    error
}
