package api

import (
	"strings"
	"time"

	"booklib/internal/jsonutil"
)

// Book is a catalog entry. Optional string fields are empty when absent.
type Book struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	ISBN        string   `json:"isbn,omitempty"`
	PublishYear *int     `json:"publish_year,omitempty"`
	Series      *string  `json:"series,omitempty"`
	CoverURL    *string  `json:"cover_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FullBook is a book with its ratings, comments and reviews embedded.
// AverageRating is nil when the book has no ratings.
type FullBook struct {
	Book
	AverageRating *float64  `json:"average_rating"`
	Ratings       []Rating  `json:"ratings"`
	Comments      []Comment `json:"comments"`
	Reviews       []Review  `json:"reviews"`
}

// ReadingFormat is how the reviewer read the book.
type ReadingFormat string

const (
	FormatPaperback ReadingFormat = "paperback"
	FormatAudiobook ReadingFormat = "audiobook"
	FormatEbook     ReadingFormat = "ebook"
)

// Valid reports whether f is one of the known formats.
func (f ReadingFormat) Valid() bool {
	switch f {
	case FormatPaperback, FormatAudiobook, FormatEbook:
		return true
	}
	return false
}

// Review is a user's free-text review of a book.
type Review struct {
	ID            int64         `json:"id"`
	BookID        int64         `json:"book_id"`
	UserID        int64         `json:"user_id"`
	Username      string        `json:"username"`
	ReviewText    string        `json:"review_text"`
	ReadingFormat ReadingFormat `json:"reading_format"`
	CreatedAt     Timestamp     `json:"created_at"`
	UpdatedAt     Timestamp     `json:"updated_at"`
}

// Rating is a user's numeric score for a book.
type Rating struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_id"`
	Rating float64 `json:"rating"`
}

// Comment is a short user comment on a book.
type Comment struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

// UnmarshalJSON accepts the body as either "text" (comments endpoint) or
// "content" (embedded in the full-book payload).
func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      int64  `json:"id"`
		UserID  int64  `json:"user_id"`
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := jsonutil.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.UserID = raw.UserID
	c.Text = raw.Text
	if c.Text == "" {
		c.Text = raw.Content
	}
	return nil
}

// User is an account on the backend.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token string `json:"token"`
}

// BookInput is a partial book for create/update. Nil fields are not sent.
type BookInput struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	Author      *string  `json:"author,omitempty"`
	Description *string  `json:"description,omitempty"`
	ISBN        *string  `json:"isbn,omitempty"`
	PublishYear *int     `json:"publish_year,omitempty" validate:"omitempty,gte=0"`
	Series      *string  `json:"series,omitempty"`
	CoverURL    *string  `json:"cover_url,omitempty" validate:"omitempty,url"`
	Tags        []string `json:"tags,omitempty"`
}

// ReviewUpdate is a partial review for update. Nil fields are not sent.
type ReviewUpdate struct {
	ReviewText    *string        `json:"review_text,omitempty" validate:"omitempty,min=1"`
	ReadingFormat *ReadingFormat `json:"reading_format,omitempty" validate:"omitempty,oneof=paperback audiobook ebook"`
}

// Timestamp decodes the backend's timestamps leniently. A value that matches
// none of the known layouts decodes to the zero time rather than failing the
// whole payload.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// String returns a pointer to s. Handy for building BookInput/ReviewUpdate.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }
