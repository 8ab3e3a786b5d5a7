package ui

import (
	"context"

	"booklib/internal/api"
)

// Catalog is the slice of the backend the book views read and act on.
type Catalog interface {
	ListBooks(ctx context.Context) ([]api.Book, error)
	GetFullBook(ctx context.Context, id int64) (*api.FullBook, error)
	DeleteBook(ctx context.Context, id int64) error
	RecheckBook(ctx context.Context, id int64) error
}

// Authenticator signs users in and up.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) error
}

// SessionStore holds the auth token. *state.Store satisfies it.
type SessionStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

// ClientBackend serves Catalog and Authenticator from an *api.Client.
type ClientBackend struct {
	Client *api.Client
}

var (
	_ Catalog       = ClientBackend{}
	_ Authenticator = ClientBackend{}
)

func (b ClientBackend) ListBooks(ctx context.Context) ([]api.Book, error) {
	return b.Client.Books.List(ctx)
}

func (b ClientBackend) GetFullBook(ctx context.Context, id int64) (*api.FullBook, error) {
	return b.Client.Books.GetFull(ctx, id)
}

func (b ClientBackend) DeleteBook(ctx context.Context, id int64) error {
	return b.Client.Books.Delete(ctx, id)
}

// RecheckBook asks the backend to refresh metadata using its default plugin.
func (b ClientBackend) RecheckBook(ctx context.Context, id int64) error {
	return b.Client.Books.Recheck(ctx, id, "")
}

func (b ClientBackend) Login(ctx context.Context, username, password string) (string, error) {
	return b.Client.Auth.Login(ctx, username, password)
}

func (b ClientBackend) Register(ctx context.Context, username, email, password string) error {
	return b.Client.Auth.Register(ctx, username, email, password)
}
