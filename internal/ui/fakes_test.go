package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"booklib/internal/api"
)

// fakeCatalog is an in-memory Catalog that records every call.
type fakeCatalog struct {
	mu sync.Mutex

	books   []api.Book
	listErr error
	full    map[int64]*api.FullBook
	fullErr error
	actErr  error

	listCalls int
	fullCalls []int64
	deleted   []int64
	rechecked []int64
}

func (f *fakeCatalog) ListBooks(context.Context) ([]api.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.books, nil
}

func (f *fakeCatalog) GetFullBook(_ context.Context, id int64) (*api.FullBook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullCalls = append(f.fullCalls, id)
	if f.fullErr != nil {
		return nil, f.fullErr
	}
	if b, ok := f.full[id]; ok {
		return b, nil
	}
	return &api.FullBook{Book: api.Book{ID: id, Title: "Untitled"}}, nil
}

func (f *fakeCatalog) DeleteBook(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.actErr
}

func (f *fakeCatalog) RecheckBook(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rechecked = append(f.rechecked, id)
	return f.actErr
}

// fakeAuth accepts one username/password pair.
type fakeAuth struct {
	user, pass string
	token      string
	registered []string
	regErr     error
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	if username != f.user || password != f.pass {
		return "", &api.StatusError{Method: "POST", Path: "/users/login", StatusCode: 401, Body: []byte(`{"error":"bad credentials"}`)}
	}
	return f.token, nil
}

func (f *fakeAuth) Register(_ context.Context, username, _, _ string) error {
	if f.regErr != nil {
		return f.regErr
	}
	f.registered = append(f.registered, username)
	return nil
}

// memModes is an in-memory ModeStore.
type memModes struct {
	value  string
	writes []string
}

func (m *memModes) ViewMode() (string, bool) { return m.value, m.value != "" }

func (m *memModes) SetViewMode(mode string) error {
	m.value = mode
	m.writes = append(m.writes, mode)
	return nil
}

// collectMsgs runs cmd and flattens batches into the messages they produce.
// Only use it on commands that return immediately.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T.
func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func sampleBooks() []api.Book {
	return []api.Book{
		{ID: 42, Title: "Dune", Author: "Frank Herbert", PublishYear: api.Int(1965), Series: api.String("Dune Chronicles"), ISBN: "9780441013593"},
		{ID: 7, Title: "Neuromancer", Author: "William Gibson", Description: "The sky above the port was the color of television."},
		{ID: 9, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
	}
}
