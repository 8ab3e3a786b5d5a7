package api

import (
	"context"
	"fmt"
)

// RatingsService covers /books/{id}/ratings.
type RatingsService service

type ratingRequest struct {
	Rating float64 `json:"rating" validate:"gte=1,lte=5"`
}

type averageResponse struct {
	Average *float64 `json:"average"`
}

// Average returns the mean rating of a book, or nil if it has none.
func (s *RatingsService) Average(ctx context.Context, bookID int64) (*float64, error) {
	var resp averageResponse
	if err := s.client.get(ctx, fmt.Sprintf("/books/%d/ratings", bookID), &resp); err != nil {
		return nil, err
	}
	return resp.Average, nil
}

// Create rates a book.
func (s *RatingsService) Create(ctx context.Context, bookID int64, value float64) error {
	body := ratingRequest{Rating: value}
	if err := s.client.validate.check(body); err != nil {
		return err
	}
	return s.client.post(ctx, fmt.Sprintf("/books/%d/ratings", bookID), body, nil)
}

// Update changes an existing rating.
func (s *RatingsService) Update(ctx context.Context, bookID, ratingID int64, value float64) error {
	body := ratingRequest{Rating: value}
	if err := s.client.validate.check(body); err != nil {
		return err
	}
	return s.client.put(ctx, fmt.Sprintf("/books/%d/ratings/%d", bookID, ratingID), body, nil)
}

// Delete removes a rating.
func (s *RatingsService) Delete(ctx context.Context, bookID, ratingID int64) error {
	return s.client.delete(ctx, fmt.Sprintf("/books/%d/ratings/%d", bookID, ratingID))
}
