package api

import (
	"context"
	"fmt"
)

// ReviewsService covers the /reviews resource.
type ReviewsService service

type reviewCreateRequest struct {
	BookID        int64         `json:"book_id" validate:"gt=0"`
	ReviewText    string        `json:"review_text" validate:"required"`
	ReadingFormat ReadingFormat `json:"reading_format" validate:"required,oneof=paperback audiobook ebook"`
}

// List returns all reviews.
func (s *ReviewsService) List(ctx context.Context) ([]Review, error) {
	return getList[Review](ctx, s.client, "/reviews")
}

// Get returns one review.
func (s *ReviewsService) Get(ctx context.Context, id int64) (*Review, error) {
	var r Review
	if err := s.client.get(ctx, fmt.Sprintf("/reviews/%d", id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByBook returns the reviews of one book.
func (s *ReviewsService) ListByBook(ctx context.Context, bookID int64) ([]Review, error) {
	return getList[Review](ctx, s.client, fmt.Sprintf("/reviews/book/%d", bookID))
}

// ListByUser returns the reviews written by one user.
func (s *ReviewsService) ListByUser(ctx context.Context, userID int64) ([]Review, error) {
	return getList[Review](ctx, s.client, fmt.Sprintf("/reviews/user/%d", userID))
}

// Create posts a review for bookID.
func (s *ReviewsService) Create(ctx context.Context, bookID int64, text string, format ReadingFormat) (*Review, error) {
	body := reviewCreateRequest{BookID: bookID, ReviewText: text, ReadingFormat: format}
	if err := s.client.validate.check(body); err != nil {
		return nil, err
	}
	var r Review
	if err := s.client.post(ctx, "/reviews", body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update changes the text and/or format of a review.
func (s *ReviewsService) Update(ctx context.Context, id int64, in ReviewUpdate) (*Review, error) {
	if err := s.client.validate.check(in); err != nil {
		return nil, err
	}
	var r Review
	if err := s.client.put(ctx, fmt.Sprintf("/reviews/%d", id), in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a review.
func (s *ReviewsService) Delete(ctx context.Context, id int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/reviews/%d", id))
}
