package api

import (
	"context"
	"fmt"
	"strings"
)

// BooksService covers the /books resource.
type BooksService service

type recheckRequest struct {
	Plugin string `json:"plugin,omitempty"`
}

// getList decodes a JSON array; an empty or null body yields an empty slice.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// List returns every book in the catalog.
func (s *BooksService) List(ctx context.Context) ([]Book, error) {
	return getList[Book](ctx, s.client, "/books")
}

// Get returns one book.
func (s *BooksService) Get(ctx context.Context, id int64) (*Book, error) {
	var b Book
	if err := s.client.get(ctx, fmt.Sprintf("/books/%d", id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetFull returns a book with its ratings, comments and reviews.
func (s *BooksService) GetFull(ctx context.Context, id int64) (*FullBook, error) {
	var b FullBook
	if err := s.client.get(ctx, fmt.Sprintf("/books/%d/full", id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create adds a book. Title is required.
func (s *BooksService) Create(ctx context.Context, in BookInput) (*Book, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "is required"}}
	}
	if err := s.client.validate.check(in); err != nil {
		return nil, err
	}
	var b Book
	if err := s.client.post(ctx, "/books", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update sends only the fields set in in.
func (s *BooksService) Update(ctx context.Context, id int64, in BookInput) (*Book, error) {
	if err := s.client.validate.check(in); err != nil {
		return nil, err
	}
	var b Book
	if err := s.client.put(ctx, fmt.Sprintf("/books/%d", id), in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a book.
func (s *BooksService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/books/%d", id))
}

// Recheck asks the backend to refresh a book's metadata. An empty plugin
// lets the server pick.
func (s *BooksService) Recheck(ctx context.Context, id int64, plugin string) error {
	return s.client.post(ctx, fmt.Sprintf("/books/%d/recheck", id), recheckRequest{Plugin: plugin}, nil)
}
