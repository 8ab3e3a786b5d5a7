package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"booklib/internal/api"
)

// SearchField selects which part of a book a query is matched against.
type SearchField int

const (
	SearchFree SearchField = iota
	SearchTitle
	SearchAuthor
)

var searchFieldLabels = [...]string{
	SearchFree:   "Free Search",
	SearchTitle:  "Book Title",
	SearchAuthor: "Author Name",
}

func (f SearchField) String() string {
	if f < 0 || int(f) >= len(searchFieldLabels) {
		return "unknown"
	}
	return searchFieldLabels[f]
}

// next cycles Free -> Title -> Author -> Free.
func (f SearchField) next() SearchField {
	return (f + 1) % SearchField(len(searchFieldLabels))
}

// SearchQuery is a submitted search. The zero value matches everything.
type SearchQuery struct {
	Field SearchField
	Text  string
}

// IsEmpty reports whether the query has no text.
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Match returns the books matching q, in catalog order. Free search is fuzzy
// over title, author and series; title and author searches are
// case-insensitive substring matches.
func (q SearchQuery) Match(books []api.Book) []api.Book {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return books
	}
	out := []api.Book{}
	switch q.Field {
	case SearchTitle, SearchAuthor:
		needle := strings.ToLower(text)
		for _, b := range books {
			hay := b.Title
			if q.Field == SearchAuthor {
				hay = b.Author
			}
			if strings.Contains(strings.ToLower(hay), needle) {
				out = append(out, b)
			}
		}
	default:
		matches := fuzzy.FindFrom(text, freeText(books))
		idx := make([]int, 0, len(matches))
		for _, m := range matches {
			idx = append(idx, m.Index)
		}
		sort.Ints(idx)
		for _, i := range idx {
			out = append(out, books[i])
		}
	}
	return out
}

// freeText exposes the searchable text of each book to fuzzy.FindFrom.
type freeText []api.Book

func (s freeText) String(i int) string {
	b := s[i]
	parts := []string{b.Title}
	if b.Author != "" {
		parts = append(parts, b.Author)
	}
	if b.Series != nil && *b.Series != "" {
		parts = append(parts, *b.Series)
	}
	return strings.Join(parts, " ")
}

func (s freeText) Len() int { return len(s) }

// SearchBar is the query input in the top bar. While focused it takes every
// key: tab cycles the field, enter submits a SearchMsg.
type SearchBar struct {
	input textinput.Model
	field SearchField
}

// NewSearchBar creates an unfocused search bar on Free Search.
func NewSearchBar() *SearchBar {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "press / to search"
	ti.Width = 28
	ti.CharLimit = 200
	return &SearchBar{input: ti}
}

// Field returns the selected search field.
func (s *SearchBar) Field() SearchField { return s.field }

// Value returns the current input text.
func (s *SearchBar) Value() string { return s.input.Value() }

// Focused reports whether the input has focus.
func (s *SearchBar) Focused() bool { return s.input.Focused() }

// Focus gives the input focus and starts the cursor blinking.
func (s *SearchBar) Focus() tea.Cmd {
	s.input.Placeholder = "search..."
	return s.input.Focus()
}

// Blur removes focus, keeping the text.
func (s *SearchBar) Blur() {
	s.input.Placeholder = "press / to search"
	s.input.Blur()
}

// Update handles keys while focused.
func (s *SearchBar) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && s.input.Focused() {
		switch km.String() {
		case "tab":
			s.field = s.field.next()
			return nil
		case "enter":
			q := SearchQuery{Field: s.field, Text: strings.TrimSpace(s.input.Value())}
			return func() tea.Msg { return SearchMsg{Query: q} }
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// View renders "[Field] input".
func (s *SearchBar) View() string {
	label := Styles.Muted.Render("[" + s.field.String() + "]")
	if s.input.Focused() {
		label = Styles.Selected.Render("[" + s.field.String() + "]")
	}
	return label + " " + s.input.View()
}
