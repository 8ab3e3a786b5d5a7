package api

import (
	"context"
	"fmt"
)

// CommentsService covers /books/{id}/comments.
type CommentsService service

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ListByBook returns the comments on a book.
func (s *CommentsService) ListByBook(ctx context.Context, bookID int64) ([]Comment, error) {
	return getList[Comment](ctx, s.client, fmt.Sprintf("/books/%d/comments", bookID))
}

// Create comments on a book.
func (s *CommentsService) Create(ctx context.Context, bookID int64, text string) error {
	body := commentRequest{Text: text}
	if err := s.client.validate.check(body); err != nil {
		return err
	}
	return s.client.post(ctx, fmt.Sprintf("/books/%d/comments", bookID), body, nil)
}

// Update replaces a comment's text.
func (s *CommentsService) Update(ctx context.Context, bookID, commentID int64, text string) error {
	body := commentRequest{Text: text}
	if err := s.client.validate.check(body); err != nil {
		return err
	}
	return s.client.put(ctx, fmt.Sprintf("/books/%d/comments/%d", bookID, commentID), body, nil)
}

// Delete removes a comment.
func (s *CommentsService) Delete(ctx context.Context, bookID, commentID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/books/%d/comments/%d", bookID, commentID))
}
