package ui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"booklib/internal/api"
	"booklib/internal/ui/textutil"
)

const (
	detailMaxWidth  = 90
	detailMaxHeight = 40
)

// BookDetailModal shows one book with its reviews, ratings and comments.
// It is bound to a single book id for its whole life: opening another book
// means creating a new modal, which fetches afresh.
type BookDetailModal struct {
	catalog Catalog
	logger  *slog.Logger
	bookID  int64

	spinner  spinner.Model
	viewport viewport.Model

	book    *api.FullBook
	loading bool
	err     error
	task    task
	closed  bool

	width, height int
}

var (
	_ View    = (*BookDetailModal)(nil)
	_ Sizable = (*BookDetailModal)(nil)
)

// NewBookDetailModal creates the modal for bookID. Nothing is fetched until Init.
func NewBookDetailModal(catalog Catalog, bookID int64, logger *slog.Logger) *BookDetailModal {
	if logger == nil {
		logger = slog.Default()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status
	m := &BookDetailModal{
		catalog:  catalog,
		logger:   logger,
		bookID:   bookID,
		spinner:  s,
		viewport: viewport.New(detailMaxWidth-6, 20),
		loading:  true,
	}
	return m
}

// BookID returns the book this modal is bound to.
func (m *BookDetailModal) BookID() int64 { return m.bookID }

// Book returns the loaded book, nil until the read succeeds.
func (m *BookDetailModal) Book() *api.FullBook { return m.book }

// Err returns the last read error.
func (m *BookDetailModal) Err() error { return m.err }

// Init starts the read.
func (m *BookDetailModal) Init() tea.Cmd {
	return m.load()
}

func (m *BookDetailModal) load() tea.Cmd {
	m.task.stop()
	m.loading = true
	m.err = nil
	ctx, t := startTask()
	m.task = t
	return tea.Batch(m.spinner.Tick, loadBookDetailCmd(ctx, m.catalog, t.id, m.bookID))
}

// Close cancels the read in flight; later results are dropped.
func (m *BookDetailModal) Close() {
	m.task.stop()
	m.closed = true
}

// SetSize implements Sizable. The modal takes at most detailMaxWidth columns.
func (m *BookDetailModal) SetSize(width, height int) {
	m.width, m.height = width, height
	w := min(width-4, detailMaxWidth) - 6 // border + padding
	h := min(height-4, detailMaxHeight) - 4
	m.viewport.Width = max(w, 20)
	m.viewport.Height = max(h, 5)
	if m.book != nil {
		m.viewport.SetContent(renderFullBook(m.book, m.viewport.Width))
	}
}

// Update implements View.
func (m *BookDetailModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case bookDetailLoadedMsg:
		if m.closed || !m.task.owns(msg.TaskID) || msg.BookID != m.bookID {
			return m, nil
		}
		m.task.stop()
		m.loading = false
		if msg.Err != nil {
			m.logger.Error("load book details", "book_id", m.bookID, "err", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		if msg.Book == nil {
			m.err = fmt.Errorf("book %d: %w", m.bookID, api.ErrNotFound)
			return m, nil
		}
		m.book = msg.Book
		m.viewport.SetContent(renderFullBook(m.book, m.viewport.Width))
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.Close()
			return m, func() tea.Msg { return CloseBookDetailMsg{} }
		case "r":
			if m.err != nil && !m.loading {
				return m, m.load()
			}
			return m, nil
		}
	}

	if m.book == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements View.
func (m *BookDetailModal) View() string {
	var content string
	switch {
	case m.loading:
		content = m.spinner.View() + " " + Styles.Muted.Render("Loading book details...")
	case m.err != nil:
		content = Styles.Error.Render("Failed to load book details.") + "\n" +
			Styles.Muted.Render(errorSummary(m.err)) + "\n\n" +
			Styles.Hint.Render("r: retry  esc: close")
	default:
		content = m.viewport.View() + "\n" +
			Styles.Hint.Render(fmt.Sprintf("↑/↓: scroll  esc: close  %3.f%%", m.viewport.ScrollPercent()*100))
	}
	return Styles.Box.Render(content)
}

// renderFullBook lays out the book for the viewport. Sections with no
// entries are left out entirely.
func renderFullBook(b *api.FullBook, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var s strings.Builder

	s.WriteString(Styles.Title.Render(textutil.Truncate(b.Title, width)) + "\n")
	if b.Author != "" {
		s.WriteString(Styles.Normal.Render("by "+b.Author) + "\n")
	}
	if meta := bookMeta(b); meta != "" {
		s.WriteString(meta + "\n")
	}
	if b.ISBN != "" {
		s.WriteString(Styles.Muted.Render("ISBN "+b.ISBN) + "\n")
	}
	if len(b.Tags) > 0 {
		s.WriteString(Styles.Muted.Render(strings.Join(b.Tags, ", ")) + "\n")
	}
	if b.Description != "" {
		s.WriteString("\n" + Styles.Section.Render("Description") + "\n")
		s.WriteString(wrap.Render(b.Description) + "\n")
	}

	if n := len(b.Reviews); n > 0 {
		s.WriteString("\n" + Styles.Section.Render(fmt.Sprintf("Reviews (%d)", n)) + "\n")
		for _, r := range b.Reviews {
			header := []string{Styles.Selected.Render(orMissing(r.Username))}
			if r.ReadingFormat != "" {
				header = append(header, Styles.Status.Render(string(r.ReadingFormat)))
			}
			if !r.CreatedAt.IsZero() {
				header = append(header, Styles.Muted.Render(r.CreatedAt.Local().Format("Jan 2, 2006")))
			}
			s.WriteString(strings.Join(header, "  ") + "\n")
			s.WriteString(wrap.Render(r.ReviewText) + "\n\n")
		}
	}

	if n := len(b.Ratings); n > 0 {
		s.WriteString("\n" + Styles.Section.Render(fmt.Sprintf("Ratings (%d)", n)) + "\n")
		if b.AverageRating != nil {
			s.WriteString(Styles.Rating.Render(formatRating(*b.AverageRating)) + Styles.Muted.Render(" / 5") + "\n")
		}
		s.WriteString(Styles.Muted.Render(ratingCount(n)) + "\n")
	}

	if n := len(b.Comments); n > 0 {
		s.WriteString("\n" + Styles.Section.Render(fmt.Sprintf("Comments (%d)", n)) + "\n")
		for _, c := range b.Comments {
			s.WriteString(wrap.Render("• "+c.Text) + "\n")
		}
	}
	return strings.TrimRight(s.String(), "\n")
}

// bookMeta joins year, series and average rating, skipping absent ones.
func bookMeta(b *api.FullBook) string {
	var parts []string
	if b.PublishYear != nil && *b.PublishYear != 0 {
		parts = append(parts, strconv.Itoa(*b.PublishYear))
	}
	if b.Series != nil && *b.Series != "" {
		parts = append(parts, *b.Series)
	}
	if b.AverageRating != nil {
		parts = append(parts, "★ "+formatRating(*b.AverageRating)+" / 5")
	}
	if len(parts) == 0 {
		return ""
	}
	return Styles.Muted.Render(strings.Join(parts, "  ·  "))
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func ratingCount(n int) string {
	if n == 1 {
		return "Based on 1 rating"
	}
	return fmt.Sprintf("Based on %d ratings", n)
}
